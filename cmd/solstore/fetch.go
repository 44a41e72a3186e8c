package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamingfast/accountstore-solana/accountstore"
	"go.uber.org/zap"
)

func newFetchCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch {fixture-path} {address} [{address}...]",
		Short: "Fetch accounts from an RPC endpoint and save them as a fixture",
		Args:  cobra.MinimumNArgs(2),
		RunE:  fetchRunE(logger),
	}
	cmd.Flags().String("endpoint", "https://api.mainnet-beta.solana.com", "RPC endpoint to fetch accounts from (also via SOLSTORE_ENDPOINT)")
	cmd.Flags().String("commitment", string(rpc.CommitmentConfirmed), "Commitment level: processed, confirmed or finalized")
	cmd.Flags().Bool("allow-missing", false, "Store not-found accounts as zero-valued accounts instead of failing")

	viper.SetEnvPrefix("SOLSTORE")
	viper.AutomaticEnv()
	viper.BindPFlag("endpoint", cmd.Flags().Lookup("endpoint"))

	return cmd
}

func fetchRunE(logger *zap.Logger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fixturePath := args[0]
		var keys []solana.PublicKey
		for _, arg := range args[1:] {
			key, err := solana.PublicKeyFromBase58(arg)
			if err != nil {
				return fmt.Errorf("invalid account address %q: %w", arg, err)
			}
			keys = append(keys, key)
		}

		endpoint := viper.GetString("endpoint")
		commitment, err := commitmentFromFlag(cmd)
		if err != nil {
			return err
		}

		opts := []accountstore.Option{accountstore.WithLogger(logger)}
		if allowMissing, _ := cmd.Flags().GetBool("allow-missing"); allowMissing {
			opts = append(opts, accountstore.AllowMissingAccounts())
		}

		fetcher := accountstore.NewRPCFetcherWithCommitment(endpoint, commitment)
		store := accountstore.NewStore(fetcher, opts...)

		if err := store.Fetch(ctx, keys...); err != nil {
			return fmt.Errorf("fetching %d accounts from %s: %w", len(keys), endpoint, err)
		}

		slot, err := fetcher.GetSlot(ctx)
		if err != nil {
			return fmt.Errorf("getting capture slot: %w", err)
		}

		err = store.SaveFixture(fixturePath, accountstore.FixtureSlot(slot), accountstore.FixtureRPCURL(endpoint))
		if err != nil {
			return fmt.Errorf("saving fixture %q: %w", fixturePath, err)
		}

		logger.Info("fixture written",
			zap.String("path", fixturePath),
			zap.Int("account_count", store.Len()),
			zap.Uint64("slot", slot),
		)
		return nil
	}
}

func commitmentFromFlag(cmd *cobra.Command) (rpc.CommitmentType, error) {
	value, _ := cmd.Flags().GetString("commitment")
	switch commitment := rpc.CommitmentType(value); commitment {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
		return commitment, nil
	default:
		return "", fmt.Errorf("unsupported commitment level %q", value)
	}
}
