package accountstore

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// BPFLoaderProgramID owns v2 programs whose bytecode lives inline in the
// program account data.
var BPFLoaderProgramID = solana.MustPublicKeyFromBase58("BPFLoader2111111111111111111111111111111111")

// BPFLoaderUpgradeableProgramID owns v3 programs. The program account only
// holds the address of a second account carrying the bytecode.
var BPFLoaderUpgradeableProgramID = solana.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")

const (
	// The program data address sits right after the 4-byte state tag of an
	// upgradeable program account.
	programDataPointerOffset = 4
	programDataPointerEnd    = programDataPointerOffset + solana.PublicKeyLength

	// Upgradeable program data accounts carry a 45-byte metadata header
	// (4-byte tag, 8-byte slot, 33-byte optional upgrade authority) before
	// the bytecode.
	programDataHeaderSize = 45
)

// Account is the on-chain account representation cached by the Store. Records
// are replaced wholesale on re-fetch, never partially mutated.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      solana.PublicKey
	Executable bool
	RentEpoch  uint64
}

type loaderVersion int

const (
	loaderUnknown loaderVersion = iota
	loaderDirect
	loaderIndirect
)

func classifyLoader(owner solana.PublicKey) loaderVersion {
	switch owner {
	case BPFLoaderProgramID:
		return loaderDirect
	case BPFLoaderUpgradeableProgramID:
		return loaderIndirect
	}
	return loaderUnknown
}

// programDataAddress reads the bytecode-holding account address embedded in an
// upgradeable program account's data.
func programDataAddress(data []byte) (solana.PublicKey, error) {
	if len(data) < programDataPointerEnd {
		return solana.PublicKey{}, fmt.Errorf("account data holds %d bytes, needs %d to contain a program data address", len(data), programDataPointerEnd)
	}
	return solana.PublicKeyFromBytes(data[programDataPointerOffset:programDataPointerEnd]), nil
}
