package accountstore

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

func keyFromBase58(t *testing.T, key string) solana.PublicKey {
	t.Helper()
	data, err := base58.Decode(key)
	if err != nil {
		panic(err)
	}
	return solana.PublicKeyFromBytes(data)
}

func validProgramBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, elfMagic)
	data[4] = elfClass64
	return data
}

func upgradeableProgramAccountData(programData solana.PublicKey) []byte {
	data := make([]byte, programDataPointerEnd)
	data[0] = 2 // upgradeable loader program state tag
	copy(data[programDataPointerOffset:], programData[:])
	return data
}

func programDataAccountData(bytecode []byte) []byte {
	data := make([]byte, programDataHeaderSize, programDataHeaderSize+len(bytecode))
	data[0] = 3 // upgradeable loader program data state tag
	return append(data, bytecode...)
}

type mockFetcher struct {
	accounts map[solana.PublicKey]*Account
	slot     uint64
	err      error

	calls    int
	requests [][]solana.PublicKey
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{accounts: make(map[solana.PublicKey]*Account)}
}

func (m *mockFetcher) GetAccounts(_ context.Context, keys []solana.PublicKey) ([]*Account, error) {
	m.calls++
	m.requests = append(m.requests, keys)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*Account, len(keys))
	for i, key := range keys {
		out[i] = m.accounts[key]
	}
	return out, nil
}

func (m *mockFetcher) GetSlot(_ context.Context) (uint64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.slot, nil
}

type recordingRegistry struct {
	programs map[string][]byte
	owners   map[string]solana.PublicKey
	slot     uint64
}

func newRecordingRegistry() *recordingRegistry {
	return &recordingRegistry{
		programs: make(map[string][]byte),
		owners:   make(map[string]solana.PublicKey),
	}
}

func (r *recordingRegistry) RegisterProgram(address solana.PublicKey, bytecode []byte, owner solana.PublicKey) {
	r.programs[address.String()] = bytecode
	r.owners[address.String()] = owner
}

func (r *recordingRegistry) AdvanceSlot(slot uint64) {
	r.slot = slot
}
