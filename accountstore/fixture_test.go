package accountstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixture_RoundTrip(t *testing.T) {
	k1 := keyFromBase58(t, a1)
	k2 := keyFromBase58(t, a2)
	k3 := keyFromBase58(t, a3)

	accounts := map[solana.PublicKey]*Account{
		k1: {Lamports: 100, Data: []byte{1, 2, 3}, Owner: keyFromBase58(t, a4), RentEpoch: 361},
		k2: {Lamports: 0, Data: validProgramBytes(60), Owner: BPFLoaderProgramID, Executable: true},
		k3: {Lamports: 42, Data: []byte{0xff}, Owner: BPFLoaderUpgradeableProgramID, RentEpoch: 1},
	}

	store := NewStore(nil, WithAccounts(accounts))
	path := filepath.Join(t.TempDir(), "nested", "dir", "accounts.json")
	require.NoError(t, store.SaveFixture(path))

	loaded, err := LoadFixture(path)
	require.NoError(t, err)
	require.Equal(t, accounts, loaded)
}

func TestFixture_FileFormat(t *testing.T) {
	k1 := keyFromBase58(t, a1)
	store := NewStore(nil, WithAccounts(map[solana.PublicKey]*Account{
		k1: {Lamports: 5, Data: []byte("hello"), Owner: keyFromBase58(t, a2), Executable: true, RentEpoch: 7},
	}))

	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, store.SaveFixture(path, FixtureSlot(150_000_000), FixtureRPCURL("https://api.mainnet-beta.solana.com")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(content, &raw))
	require.Contains(t, raw, "version")
	require.Contains(t, raw, "metadata")
	require.Contains(t, raw, "accounts")

	var version int
	require.NoError(t, json.Unmarshal(raw["version"], &version))
	require.Equal(t, 1, version)

	var metadata map[string]any
	require.NoError(t, json.Unmarshal(raw["metadata"], &metadata))
	assert.Equal(t, float64(150_000_000), metadata["slot"])
	assert.Equal(t, "https://api.mainnet-beta.solana.com", metadata["rpc_url"])
	assert.NotEmpty(t, metadata["timestamp"])

	var accounts map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw["accounts"], &accounts))
	entry := accounts[a1]
	require.NotNil(t, entry)
	assert.Equal(t, float64(5), entry["lamports"])
	assert.Equal(t, "aGVsbG8=", entry["data"])
	assert.Equal(t, a2, entry["owner"])
	assert.Equal(t, true, entry["executable"])
	assert.Equal(t, float64(7), entry["rent_epoch"])
}

func TestFixture_MetadataOmittedWhenUnset(t *testing.T) {
	store := NewStore(nil)
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, store.SaveFixture(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw struct {
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(content, &raw))
	require.Contains(t, raw.Metadata, "timestamp")
	require.NotContains(t, raw.Metadata, "slot")
	require.NotContains(t, raw.Metadata, "rpc_url")
}

func TestLoadFixture_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v2.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 2, "accounts": {}}`), 0644))

	_, err := LoadFixture(path)
	require.Error(t, err)

	var invalid *InvalidFixtureError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "2")
}

func TestLoadFixture_InvalidOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-owner.json")
	content := `{"version": 1, "accounts": {"` + a1 + `": {"lamports": 1, "data": "", "owner": "not-a-key", "executable": false, "rent_epoch": 0}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadFixture(path)
	var invalid *InvalidFixtureError
	require.ErrorAs(t, err, &invalid)
}

func TestLoadFixture_InvalidAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-address.json")
	content := `{"version": 1, "accounts": {"zz!!": {"lamports": 1, "data": "", "owner": "` + a2 + `", "executable": false, "rent_epoch": 0}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadFixture(path)
	var invalid *InvalidFixtureError
	require.ErrorAs(t, err, &invalid)
}

func TestLoadFixture_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := LoadFixture(path)
	var invalid *InvalidFixtureError
	require.ErrorAs(t, err, &invalid)
}

func TestNewStoreFromFixture(t *testing.T) {
	k1 := keyFromBase58(t, a1)
	source := NewStore(nil, WithAccounts(map[solana.PublicKey]*Account{
		k1: {Lamports: 77, Data: []byte{9}, Owner: keyFromBase58(t, a2)},
	}))

	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, source.SaveFixture(path))

	store, err := NewStoreFromFixture(path)
	require.NoError(t, err)
	require.True(t, store.Contains(k1))

	// cached accounts resolve without any network collaborator
	require.NoError(t, store.Fetch(context.Background(), k1))
	// addresses absent from the fixture cannot be resolved offline
	require.Error(t, store.Fetch(context.Background(), keyFromBase58(t, a3)))
}
