package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/streamingfast/accountstore-solana/accountstore"
	"go.uber.org/zap"
)

func newProgramsCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs {fixture-path}",
		Short: "Resolve the programs contained in a fixture and print what would be registered",
		Args:  cobra.ExactArgs(1),
		RunE:  programsRunE(logger),
	}
	cmd.Flags().Bool("skip-validation", false, "Skip ELF header validation of extracted bytecode")
	return cmd
}

func programsRunE(logger *zap.Logger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts := []accountstore.Option{accountstore.WithLogger(logger)}
		if skip, _ := cmd.Flags().GetBool("skip-validation"); skip {
			opts = append(opts, accountstore.SkipProgramValidation())
		}

		store, err := accountstore.NewStoreFromFixture(args[0], opts...)
		if err != nil {
			return fmt.Errorf("loading fixture %q: %w", args[0], err)
		}

		registry := &printingRegistry{}
		if err := store.ResolvePrograms(cmd.Context(), registry); err != nil {
			return fmt.Errorf("resolving programs: %w", err)
		}

		fmt.Printf("%d programs\n", registry.count)
		return nil
	}
}

type printingRegistry struct {
	count int
}

func (r *printingRegistry) RegisterProgram(address solana.PublicKey, bytecode []byte, owner solana.PublicKey) {
	r.count++
	fmt.Printf("%s  %s  loader %s\n", address, humanize.Bytes(uint64(len(bytecode))), owner)
}

func (r *printingRegistry) AdvanceSlot(uint64) {}
