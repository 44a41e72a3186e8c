package accountstore

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// TransportError wraps any failure coming from the network collaborator. It is
// never retried internally, retry policy belongs to the caller.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AccountNotFoundError is returned by a strict-mode fetch when the endpoint
// reports no account at the requested address.
type AccountNotFoundError struct {
	Address solana.PublicKey
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.Address)
}

// MalformedProgramError flags an upgradeable program account whose data cannot
// contain a program data address.
type MalformedProgramError struct {
	Address solana.PublicKey
	Reason  string
}

func (e *MalformedProgramError) Error() string {
	return fmt.Sprintf("malformed program %s: %s", e.Address, e.Reason)
}

// InvalidProgramDataError flags a bytecode-holding account that is missing,
// too small or fails bytecode validation.
type InvalidProgramDataError struct {
	Address solana.PublicKey
	Reason  string
}

func (e *InvalidProgramDataError) Error() string {
	return fmt.Sprintf("invalid program data for %s: %s", e.Address, e.Reason)
}

// InvalidFixtureError flags an unparsable fixture file or an unsupported
// fixture version.
type InvalidFixtureError struct {
	Reason string
}

func (e *InvalidFixtureError) Error() string {
	return fmt.Sprintf("invalid fixture format: %s", e.Reason)
}
