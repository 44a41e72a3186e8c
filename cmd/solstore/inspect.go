package main

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/streamingfast/accountstore-solana/accountstore"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect {fixture-path}",
		Short: "Print the accounts contained in a fixture",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectRunE,
	}
}

func inspectRunE(cmd *cobra.Command, args []string) error {
	accounts, err := accountstore.LoadFixture(args[0])
	if err != nil {
		return fmt.Errorf("loading fixture %q: %w", args[0], err)
	}

	var addresses []solana.PublicKey
	for address := range accounts {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) < 0
	})

	for _, address := range addresses {
		account := accounts[address]
		executable := ""
		if account.Executable {
			executable = "  executable"
		}
		fmt.Printf("%s  %s lamports  %s  owner %s%s\n",
			address,
			humanize.Comma(int64(account.Lamports)),
			humanize.Bytes(uint64(len(account.Data))),
			account.Owner,
			executable,
		)
	}

	fmt.Printf("%d accounts\n", len(accounts))
	return nil
}
