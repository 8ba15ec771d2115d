package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verisage-dev/verisage/internal/model"
)

func TestDefaultLookup(t *testing.T) {
	table := Default()

	m, ok := table.Lookup("offering")
	require.True(t, ok)
	assert.Equal(t, "4500", m.Account)
	assert.Equal(t, model.SideCredit, m.Side)

	m, ok = table.Lookup("pastorsPension")
	require.True(t, ok)
	assert.Equal(t, "PASTOR'S PENSION", m.Description)
	assert.Equal(t, model.SideDebit, m.Side)

	_, ok = table.Lookup("buildingProject")
	assert.False(t, ok, "buildingProject is not a ledger item")
}

func TestSharedAccount(t *testing.T) {
	table := Default()

	shared := table.ByAccount("4550")
	require.Len(t, shared, 4)
	fields := make([]string, len(shared))
	for i, m := range shared {
		fields[i] = m.Field
	}
	assert.Equal(t, []string{"seedOffering", "thanksgiving", "annualThanksgiving", "otherProject"}, fields)
	assert.True(t, table.HasAccount("4550"))
	assert.False(t, table.HasAccount("1300"))
}

func TestNewTable_Duplicate(t *testing.T) {
	_, err := NewTable([]model.AccountMapping{
		{Field: "offering", Account: "4500", Side: model.SideCredit},
		{Field: "offering", Account: "4501", Side: model.SideCredit},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate mapping for field "offering"`)
}

func TestNewTable_InvalidSide(t *testing.T) {
	_, err := NewTable([]model.AccountMapping{{Field: "offering", Account: "4500", Side: "D"}})
	require.Error(t, err)
}

func TestTableIsImmutable(t *testing.T) {
	mappings := DefaultMapping()
	table, err := NewTable(mappings)
	require.NoError(t, err)

	mappings[0].Account = "0000"
	all := table.All()
	all[1].Account = "0000"

	m, _ := table.Lookup("offering")
	assert.Equal(t, "4500", m.Account)
	assert.Equal(t, "4510", table.All()[1].Account)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Default().Save(dir))

	_, err := os.Stat(filepath.Join(dir, "accounts", "account-map.csv"))
	require.NoError(t, err)

	table, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultMapping(), table.All())
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
