package accountstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// ResolvePrograms walks the cached executable accounts, fetches the
// bytecode-holding accounts referenced by upgradeable programs and registers
// every resolved program with the registry.
//
// Resolution runs in two passes over the cache snapshot: first collect the
// missing program data addresses and fetch them in one batch, then extract.
// Bytecode is never extracted before every referenced account is resolved.
func (s *Store) ResolvePrograms(ctx context.Context, registry ProgramRegistry) error {
	var programDataKeys []solana.PublicKey
	seen := make(map[solana.PublicKey]bool)
	for address, account := range s.cache {
		if !account.Executable || classifyLoader(account.Owner) != loaderIndirect {
			continue
		}
		programData, err := programDataAddress(account.Data)
		if err != nil {
			return &MalformedProgramError{Address: address, Reason: err.Error()}
		}
		if seen[programData] || s.Contains(programData) {
			continue
		}
		seen[programData] = true
		programDataKeys = append(programDataKeys, programData)
	}
	sort.Slice(programDataKeys, func(i, j int) bool {
		return bytes.Compare(programDataKeys[i][:], programDataKeys[j][:]) < 0
	})

	if len(programDataKeys) > 0 {
		s.logger.Debug("fetching program data accounts", zap.Int("count", len(programDataKeys)))
		if err := s.Fetch(ctx, programDataKeys...); err != nil {
			var notFound *AccountNotFoundError
			if errors.As(err, &notFound) {
				return &InvalidProgramDataError{Address: notFound.Address, Reason: "program data account not found"}
			}
			return fmt.Errorf("fetching program data accounts: %w", err)
		}
	}

	var programs []solana.PublicKey
	for address, account := range s.cache {
		if account.Executable {
			programs = append(programs, address)
		}
	}
	sort.Slice(programs, func(i, j int) bool {
		return bytes.Compare(programs[i][:], programs[j][:]) < 0
	})

	for _, address := range programs {
		account := s.cache[address]
		switch classifyLoader(account.Owner) {
		case loaderDirect:
			if err := s.registerProgram(registry, address, account.Data, account.Owner); err != nil {
				return err
			}

		case loaderIndirect:
			programData, err := programDataAddress(account.Data)
			if err != nil {
				return &MalformedProgramError{Address: address, Reason: err.Error()}
			}
			holder, found := s.cache[programData]
			if !found {
				return &InvalidProgramDataError{Address: programData, Reason: fmt.Sprintf("program data account for program %s not cached", address)}
			}
			if len(holder.Data) <= programDataHeaderSize {
				return &InvalidProgramDataError{Address: programData, Reason: fmt.Sprintf("program data account holds %d bytes, needs more than %d", len(holder.Data), programDataHeaderSize)}
			}
			if err := s.registerProgram(registry, address, holder.Data[programDataHeaderSize:], account.Owner); err != nil {
				return err
			}

		default:
			// not a program format this store understands
			if tracer.Enabled() {
				s.logger.Debug("skipping executable account with unknown loader",
					zap.Stringer("address", address),
					zap.Stringer("owner", account.Owner),
				)
			}
		}
	}

	return nil
}

func (s *Store) registerProgram(registry ProgramRegistry, address solana.PublicKey, bytecode []byte, owner solana.PublicKey) error {
	if s.validatePrograms {
		if err := ValidateProgramBytes(bytecode); err != nil {
			return &InvalidProgramDataError{Address: address, Reason: err.Error()}
		}
	}
	s.logger.Debug("registering program",
		zap.Stringer("address", address),
		zap.Stringer("owner", owner),
		zap.Int("bytecode_size", len(bytecode)),
	)
	registry.RegisterProgram(address, bytecode, owner)
	return nil
}
