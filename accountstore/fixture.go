package accountstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const fixtureVersion = 1

type fixtureFile struct {
	Version  uint8                     `json:"version"`
	Metadata *FixtureMetadata          `json:"metadata,omitempty"`
	Accounts map[string]fixtureAccount `json:"accounts"`
}

// FixtureMetadata records where and when a fixture was captured.
type FixtureMetadata struct {
	Slot      *uint64 `json:"slot,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`
	RPCURL    *string `json:"rpc_url,omitempty"`
}

type fixtureAccount struct {
	Lamports   uint64 `json:"lamports"`
	Data       string `json:"data"`
	Owner      string `json:"owner"`
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rent_epoch"`
}

type FixtureOption func(*FixtureMetadata)

func FixtureSlot(slot uint64) FixtureOption {
	return func(m *FixtureMetadata) { m.Slot = &slot }
}

func FixtureRPCURL(url string) FixtureOption {
	return func(m *FixtureMetadata) { m.RPCURL = &url }
}

// SaveFixture writes the cache as a versioned JSON fixture, creating parent
// directories as needed. The capture timestamp is always stamped, slot and
// RPC URL only when supplied through options.
func (s *Store) SaveFixture(path string, opts ...FixtureOption) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	metadata := &FixtureMetadata{Timestamp: &timestamp}
	for _, opt := range opts {
		opt(metadata)
	}

	accounts := make(map[string]fixtureAccount, len(s.cache))
	for address, account := range s.cache {
		accounts[address.String()] = fixtureAccount{
			Lamports:   account.Lamports,
			Data:       base64.StdEncoding.EncodeToString(account.Data),
			Owner:      account.Owner.String(),
			Executable: account.Executable,
			RentEpoch:  account.RentEpoch,
		}
	}

	content, err := json.MarshalIndent(fixtureFile{
		Version:  fixtureVersion,
		Metadata: metadata,
		Accounts: accounts,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding fixture: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("creating fixture directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing fixture %q: %w", path, err)
	}

	s.logger.Info("fixture saved", zap.String("path", path), zap.Int("account_count", len(accounts)))
	return nil
}

// LoadFixture reads a fixture written by SaveFixture. It is the offline
// substitute for a Fetcher and never touches the network. Any version other
// than 1 is rejected.
func LoadFixture(path string) (map[solana.PublicKey]*Account, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %q: %w", path, err)
	}

	var fixture fixtureFile
	if err := json.Unmarshal(content, &fixture); err != nil {
		return nil, &InvalidFixtureError{Reason: err.Error()}
	}
	if fixture.Version != fixtureVersion {
		return nil, &InvalidFixtureError{Reason: fmt.Sprintf("unsupported fixture version: %d", fixture.Version)}
	}

	accounts := make(map[solana.PublicKey]*Account, len(fixture.Accounts))
	for addressText, fixtureAcc := range fixture.Accounts {
		address, err := solana.PublicKeyFromBase58(addressText)
		if err != nil {
			return nil, &InvalidFixtureError{Reason: fmt.Sprintf("invalid account address %q: %s", addressText, err)}
		}
		owner, err := solana.PublicKeyFromBase58(fixtureAcc.Owner)
		if err != nil {
			return nil, &InvalidFixtureError{Reason: fmt.Sprintf("invalid owner %q for account %s: %s", fixtureAcc.Owner, addressText, err)}
		}
		var data []byte
		if fixtureAcc.Data != "" {
			data, err = base64.StdEncoding.DecodeString(fixtureAcc.Data)
			if err != nil {
				return nil, &InvalidFixtureError{Reason: fmt.Sprintf("invalid data for account %s: %s", addressText, err)}
			}
		}
		accounts[address] = &Account{
			Lamports:   fixtureAcc.Lamports,
			Data:       data,
			Owner:      owner,
			Executable: fixtureAcc.Executable,
			RentEpoch:  fixtureAcc.RentEpoch,
		}
	}
	return accounts, nil
}

// NewStoreFromFixture builds a Store whose cache is pre-filled from a fixture
// file. The returned store has no fetcher, requesting an address absent from
// the fixture fails instead of hitting the network.
func NewStoreFromFixture(path string, opts ...Option) (*Store, error) {
	accounts, err := LoadFixture(path)
	if err != nil {
		return nil, err
	}
	return NewStore(nil, append([]Option{WithAccounts(accounts)}, opts...)...), nil
}
