package loadorder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlink/pkg/errors"
	"modlink/pkg/loadorder"
	"modlink/pkg/testutil"
	"modlink/pkg/types"
)

func catalogOf(ids ...string) *types.Catalog {
	mods := make([]types.Mod, len(ids))
	for i, id := range ids {
		mods[i] = types.Mod{ID: id, Title: id, SourcePath: "/Mods/" + id}
	}
	return types.NewCatalog(mods)
}

// assertPartition checks that every catalog id is in exactly one of the
// active order and the available set.
func assertPartition(t *testing.T, m *loadorder.Model, catalog *types.Catalog) {
	t.Helper()

	seen := make(map[string]int)
	for _, entry := range m.Active() {
		seen[entry.ModID]++
	}
	for _, mod := range m.Available() {
		seen[mod.ID]++
	}

	for _, mod := range catalog.Mods() {
		assert.Equal(t, 1, seen[mod.ID], "mod %s must be in exactly one partition", mod.ID)
	}
	assert.Len(t, seen, catalog.Len())
}

func TestModel_ActivateDeactivate(t *testing.T) {
	catalog := catalogOf("a", "b", "c")
	m := loadorder.New(catalog, types.LoadOrderState{})

	require.NoError(t, m.Activate("b", -1))
	require.NoError(t, m.Activate("a", -1))
	assert.Equal(t, []string{"b", "a"}, testutil.ActiveIDs(m.Active()))
	assertPartition(t, m, catalog)

	err := m.Activate("a", -1)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyActive))
	assert.Equal(t, []string{"b", "a"}, testutil.ActiveIDs(m.Active()), "failed activate must be a no-op")

	err = m.Activate("nope", -1)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModNotFound))

	require.NoError(t, m.Deactivate("b"))
	assert.Equal(t, []string{"a"}, testutil.ActiveIDs(m.Active()))
	assertPartition(t, m, catalog)

	err = m.Deactivate("b")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotActive))
}

func TestModel_ActivateAtIndex(t *testing.T) {
	catalog := catalogOf("a", "b", "c")
	m := loadorder.New(catalog, types.LoadOrderState{})

	require.NoError(t, m.Activate("a", -1))
	require.NoError(t, m.Activate("b", -1))
	require.NoError(t, m.Activate("c", 0))
	assert.Equal(t, []string{"c", "a", "b"}, testutil.ActiveIDs(m.Active()))
}

func TestModel_ReactivateDefaultsToEnabled(t *testing.T) {
	catalog := catalogOf("a")
	m := loadorder.New(catalog, types.LoadOrderState{})

	require.NoError(t, m.Activate("a", -1))
	require.NoError(t, m.SetEnabled("a", false))
	require.NoError(t, m.Deactivate("a"))
	require.NoError(t, m.Activate("a", -1))

	assert.True(t, m.Active()[0].Enabled, "the disabled flag is discarded on deactivate")
}

func TestModel_Move(t *testing.T) {
	catalog := catalogOf("a", "b", "c", "d")
	m := loadorder.New(catalog, types.LoadOrderState{Entries: []types.LoadOrderEntry{
		{ModID: "a", Enabled: true},
		{ModID: "b", Enabled: true},
		{ModID: "c", Enabled: true},
		{ModID: "d", Enabled: true},
	}})

	require.NoError(t, m.Move("c", 0))
	assert.Equal(t, []string{"c", "a", "b", "d"}, testutil.ActiveIDs(m.Active()),
		"other entries keep pairwise relative order")

	// Out-of-range targets clamp instead of failing.
	require.NoError(t, m.Move("c", 99))
	assert.Equal(t, []string{"a", "b", "d", "c"}, testutil.ActiveIDs(m.Active()))
	require.NoError(t, m.Move("c", -5))
	assert.Equal(t, []string{"c", "a", "b", "d"}, testutil.ActiveIDs(m.Active()))

	err := m.Move("ghost", 1)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotActive))
}

func TestModel_SetEnabled(t *testing.T) {
	catalog := catalogOf("a", "b")
	m := loadorder.New(catalog, types.LoadOrderState{Entries: []types.LoadOrderEntry{
		{ModID: "a", Enabled: true},
	}})

	require.NoError(t, m.SetEnabled("a", false))
	assert.False(t, m.Active()[0].Enabled)
	assert.Equal(t, []string{"a"}, testutil.ActiveIDs(m.Active()),
		"disabling must not remove the entry from the order")

	err := m.SetEnabled("b", true)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotActive))
}

func TestModel_PruneDangling(t *testing.T) {
	catalog := catalogOf("a", "c")
	m := loadorder.New(catalog, types.LoadOrderState{Entries: []types.LoadOrderEntry{
		{ModID: "a", Enabled: true},
		{ModID: "b", Enabled: true},
		{ModID: "c", Enabled: false},
		{ModID: "x", Enabled: true},
	}})

	pruned := m.PruneDangling(catalog.IDs())
	assert.Equal(t, []string{"b", "x"}, pruned)
	assert.Equal(t, []string{"a", "c"}, testutil.ActiveIDs(m.Active()))
	assertPartition(t, m, catalog)

	assert.Empty(t, m.PruneDangling(catalog.IDs()), "second prune finds nothing")
}

func TestModel_PartitionAfterMutationSequence(t *testing.T) {
	catalog := catalogOf("a", "b", "c", "d", "e")
	m := loadorder.New(catalog, types.LoadOrderState{})

	require.NoError(t, m.Activate("a", -1))
	require.NoError(t, m.Activate("b", 0))
	require.NoError(t, m.Activate("c", 1))
	require.NoError(t, m.Deactivate("a"))
	require.NoError(t, m.Activate("d", -1))
	require.NoError(t, m.Move("d", 0))
	m.PruneDangling(catalog.IDs())

	assertPartition(t, m, catalog)
}
