package accountstore

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Fetcher is the network collaborator the Store pulls accounts from. The
// production implementation is RPCFetcher, tests substitute their own.
type Fetcher interface {
	// GetAccounts returns one entry per requested key, positionally. A nil
	// entry means no account exists at that address.
	GetAccounts(ctx context.Context, keys []solana.PublicKey) ([]*Account, error)
	GetSlot(ctx context.Context) (uint64, error)
}

// ProgramRegistry is the execution environment collaborator fed by
// ResolvePrograms and AdvanceToCurrentSlot.
type ProgramRegistry interface {
	RegisterProgram(address solana.PublicKey, bytecode []byte, owner solana.PublicKey)
	AdvanceSlot(slot uint64)
}

// Store caches accounts fetched from a Fetcher and resolves the programs they
// contain. A Store owns its cache exclusively and lives for one resolution
// session, there is no eviction.
type Store struct {
	fetcher          Fetcher
	cache            map[solana.PublicKey]*Account
	allowMissing     bool
	validatePrograms bool
	logger           *zap.Logger
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// AllowMissingAccounts makes fetches materialize not-found accounts as
// zero-valued records instead of failing the batch.
func AllowMissingAccounts() Option {
	return func(s *Store) { s.allowMissing = true }
}

// SkipProgramValidation disables the ELF header checks performed before a
// program is registered.
func SkipProgramValidation() Option {
	return func(s *Store) { s.validatePrograms = false }
}

// WithAccounts pre-seeds the cache, typically with mocked accounts that must
// shadow their on-chain counterparts. Pre-seeded addresses are never fetched.
func WithAccounts(accounts map[solana.PublicKey]*Account) Option {
	return func(s *Store) {
		for address, account := range accounts {
			s.cache[address] = account
		}
	}
}

func NewStore(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:          fetcher,
		cache:            make(map[solana.PublicKey]*Account),
		validatePrograms: true,
		logger:           zlog,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(address solana.PublicKey) (*Account, bool) {
	account, found := s.cache[address]
	return account, found
}

func (s *Store) Put(address solana.PublicKey, account *Account) {
	s.cache[address] = account
}

func (s *Store) Contains(address solana.PublicKey) bool {
	_, found := s.cache[address]
	return found
}

func (s *Store) Len() int {
	return len(s.cache)
}

// Accounts hands the cache to the downstream execution environment. The Store
// keeps ownership, callers must not mutate it while a session is live.
func (s *Store) Accounts() map[solana.PublicKey]*Account {
	return s.cache
}

// Fetch pulls the requested accounts into the cache. Already cached addresses
// are skipped and the remainder is fetched in a single round-trip, preserving
// input order. Fetching an already fully cached set performs no network call.
func (s *Store) Fetch(ctx context.Context, keys ...solana.PublicKey) error {
	seen := make(map[solana.PublicKey]bool, len(keys))
	var missing []solana.PublicKey
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		if !s.Contains(key) {
			missing = append(missing, key)
		}
	}

	if len(missing) == 0 {
		if tracer.Enabled() {
			s.logger.Debug("all requested accounts already cached", zap.Int("requested", len(keys)))
		}
		return nil
	}

	if s.fetcher == nil {
		return fmt.Errorf("%d accounts not cached and store has no fetcher", len(missing))
	}

	accounts, err := s.fetcher.GetAccounts(ctx, missing)
	if err != nil {
		return &TransportError{Err: err}
	}
	if len(accounts) != len(missing) {
		return fmt.Errorf("fetcher returned %d accounts for %d requested keys", len(accounts), len(missing))
	}

	for i, account := range accounts {
		key := missing[i]
		if account == nil {
			if !s.allowMissing {
				return &AccountNotFoundError{Address: key}
			}
			account = &Account{}
		}
		s.cache[key] = account
	}

	s.logger.Debug("fetched accounts",
		zap.Int("requested", len(keys)),
		zap.Int("fetched", len(missing)),
		zap.Int("cache_size", len(s.cache)),
	)
	return nil
}

// FetchInstruction pulls every account the instruction references, program
// account included.
func (s *Store) FetchInstruction(ctx context.Context, instruction solana.Instruction) error {
	return s.FetchInstructions(ctx, []solana.Instruction{instruction})
}

// FetchInstructions pulls the union of accounts referenced across all
// instructions. An address shared by many instructions is fetched once.
func (s *Store) FetchInstructions(ctx context.Context, instructions []solana.Instruction) error {
	seen := make(map[solana.PublicKey]bool)
	var keys []solana.PublicKey
	collect := func(key solana.PublicKey) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	for _, instruction := range instructions {
		collect(instruction.ProgramID())
		for _, meta := range instruction.Accounts() {
			collect(meta.PublicKey)
		}
	}

	return s.Fetch(ctx, keys...)
}

// AdvanceToCurrentSlot queries the fetcher for the current slot and forwards
// it to the registry.
func (s *Store) AdvanceToCurrentSlot(ctx context.Context, registry ProgramRegistry) error {
	if s.fetcher == nil {
		return fmt.Errorf("store has no fetcher")
	}
	slot, err := s.fetcher.GetSlot(ctx)
	if err != nil {
		return &TransportError{Err: err}
	}
	s.logger.Debug("advancing registry slot", zap.Uint64("slot", slot))
	registry.AdvanceSlot(slot)
	return nil
}
