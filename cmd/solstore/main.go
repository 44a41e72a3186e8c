package main

import (
	"github.com/spf13/cobra"
	"github.com/streamingfast/derr"
	"github.com/streamingfast/logging"
	"go.uber.org/zap"
)

var zlog, tracer = logging.PackageLogger("solstore", "github.com/streamingfast/accountstore-solana/cmd/solstore")

// Version value, injected via go build `ldflags` at build time
var Version = "dev"

var RootCmd = &cobra.Command{
	Use:     "solstore",
	Short:   "Fetch Solana accounts into fixtures for local SVM execution",
	Version: Version,
}

func main() {
	logging.InstantiateLoggers(logging.WithDefaultLevel(zap.InfoLevel))

	RootCmd.AddCommand(newFetchCmd(zlog))
	RootCmd.AddCommand(newInspectCmd())
	RootCmd.AddCommand(newProgramsCmd(zlog))

	derr.Check("solstore", RootCmd.Execute())
}
