package accountstore

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPCFetcher implements Fetcher on top of a Solana JSON-RPC endpoint using
// getMultipleAccounts, so a whole batch costs one round-trip.
type RPCFetcher struct {
	client     *rpc.Client
	commitment rpc.CommitmentType
}

func NewRPCFetcher(endpoint string) *RPCFetcher {
	return NewRPCFetcherWithCommitment(endpoint, rpc.CommitmentConfirmed)
}

func NewRPCFetcherWithCommitment(endpoint string, commitment rpc.CommitmentType) *RPCFetcher {
	return &RPCFetcher{
		client:     rpc.New(endpoint),
		commitment: commitment,
	}
}

func (f *RPCFetcher) GetAccounts(ctx context.Context, keys []solana.PublicKey) ([]*Account, error) {
	result, err := f.client.GetMultipleAccountsWithOpts(ctx, keys, &rpc.GetMultipleAccountsOpts{
		Commitment: f.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		return nil, fmt.Errorf("getting %d accounts: %w", len(keys), err)
	}
	if len(result.Value) != len(keys) {
		return nil, fmt.Errorf("endpoint returned %d accounts for %d requested keys", len(result.Value), len(keys))
	}

	out := make([]*Account, len(keys))
	for i, value := range result.Value {
		if value == nil {
			continue
		}
		var data []byte
		if value.Data != nil {
			data = value.Data.GetBinary()
		}
		out[i] = &Account{
			Lamports:   value.Lamports,
			Data:       data,
			Owner:      value.Owner,
			Executable: value.Executable,
			RentEpoch:  value.RentEpoch,
		}
	}
	return out, nil
}

func (f *RPCFetcher) GetSlot(ctx context.Context) (uint64, error) {
	slot, err := f.client.GetSlot(ctx, f.commitment)
	if err != nil {
		return 0, fmt.Errorf("getting current slot: %w", err)
	}
	return slot, nil
}
