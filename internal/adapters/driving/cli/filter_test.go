package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// createFilter seeds five elements and returns a new multi-mode filter ID.
func createFilter(t *testing.T) string {
	t.Helper()
	seedElements(t, 5)
	f, err := filterService.Create(context.Background(), "Regions", testForm, domain.ElementsByURI, domain.SelectionModeMulti)
	require.NoError(t, err)
	return f.ID
}

func TestFilterCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range filterCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{
		"create", "list", "show", "delete",
		"add", "remove", "only", "all", "none", "invert", "clear",
		"commit", "revert", "export",
	} {
		assert.Contains(t, names, want)
	}
}

func TestDescribeSelection(t *testing.T) {
	tests := []struct {
		name string
		sel  domain.Selection
		want string
	}{
		{"all", domain.SelectAll(), "all"},
		{"none", domain.SelectNone(), "none"},
		{"positive", domain.Selection{Items: domain.NewKeySet("a", "b")}, "a, b"},
		{"negative", domain.Selection{Inverted: true, Items: domain.NewKeySet("c")}, "all except c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeSelection(tt.sel))
		})
	}
}

func TestFilterCreate(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand("filter", "create", "Regions", testForm, "--by", "value", "--single")

	require.NoError(t, err)
	assert.Contains(t, out, "Created filter")
	assert.Contains(t, out, "(Regions)")

	filters, err := filterService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, domain.ElementsByValue, filters[0].ElementsBy)
	assert.Equal(t, domain.SelectionModeSingle, filters[0].Mode)
	assert.Equal(t, "none", describeSelection(filters[0].Committed))
}

func TestFilterCreate_InvalidBy(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand("filter", "create", "Regions", testForm, "--by", "title")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFilterList(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand("filter", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No filters")

	id := createFilter(t)
	_, err = executeCommand("filter", "remove", id, "/elements/a")
	require.NoError(t, err)

	out, err = executeCommand("filter", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id+"  Regions  ["+testForm+"] (uncommitted changes)")
}

func TestFilterStagedEdits(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	id := createFilter(t)

	out, err := executeCommand("filter", "remove", id, "/elements/a", "/elements/b")
	require.NoError(t, err)
	assert.Contains(t, out, "Working: all except /elements/a, /elements/b")

	out, err = executeCommand("filter", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Working: all except /elements/a, /elements/b")
	assert.Contains(t, out, "Committed: all")
	assert.Contains(t, out, "(uncommitted changes)")

	out, err = executeCommand("filter", "commit", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Committed: all except /elements/a, /elements/b")

	out, err = executeCommand("filter", "only", id, "/elements/c")
	require.NoError(t, err)
	assert.Contains(t, out, "Working: /elements/c")

	out, err = executeCommand("filter", "revert", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Working: all except /elements/a, /elements/b")
}

func TestFilterSelectionOps(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	id := createFilter(t)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"none", id}, "Working: none"},
		{[]string{"add", id, "/elements/a", "/elements/b"}, "Working: /elements/a, /elements/b"},
		{[]string{"invert", id}, "Working: all except /elements/a, /elements/b"},
		{[]string{"all", id}, "Working: all"},
		{[]string{"clear", id}, "Working: all"},
	}

	for _, step := range steps {
		out, err := executeCommand(append([]string{"filter"}, step.args...)...)
		require.NoError(t, err, step.args)
		assert.Contains(t, out, step.want, step.args)
	}
}

func TestFilterSingleMode_RejectsInvert(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	seedElements(t, 3)
	f, err := filterService.Create(context.Background(), "One", testForm, domain.ElementsByURI, domain.SelectionModeSingle)
	require.NoError(t, err)

	_, err = executeCommand("filter", "invert", f.ID)

	assert.ErrorIs(t, err, domain.ErrSingleSelection)
}

func TestFilterShow_JSON(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	id := createFilter(t)

	out, err := executeCommand("filter", "show", id, "--json")

	require.NoError(t, err)
	var f domain.SavedFilter
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, id, f.ID)
	assert.Equal(t, testForm, f.DisplayForm)
}

func TestFilterExport(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	id := createFilter(t)
	_, err := executeCommand("filter", "remove", id, "/elements/d")
	require.NoError(t, err)

	out, err := executeCommand("filter", "export", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"notIn"`)
	assert.NotContains(t, out, "/elements/d", "working changes are not exported")

	_, err = executeCommand("filter", "commit", id)
	require.NoError(t, err)
	out, err = executeCommand("filter", "export", id)
	require.NoError(t, err)

	var af domain.AttributeFilter
	require.NoError(t, json.Unmarshal([]byte(out), &af))
	require.NotNil(t, af.Negative)
	assert.Equal(t, testForm, af.Negative.DisplayForm)
	assert.Equal(t, []string{"/elements/d"}, af.Negative.NotIn.Keys)
}

func TestFilterDelete(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	id := createFilter(t)

	out, err := executeCommand("filter", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted filter "+id)

	_, err = executeCommand("filter", "show", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFilterCmd_Errors(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	for _, args := range [][]string{
		{"filter", "show", "missing"},
		{"filter", "commit", "missing"},
		{"filter", "revert", "missing"},
		{"filter", "export", "missing"},
		{"filter", "none", "missing"},
		{"filter", "delete", "missing"},
	} {
		_, err := executeCommand(args...)
		assert.ErrorIs(t, err, domain.ErrNotFound, args)
	}

	_, err := executeCommand("filter", "only", "id")
	assert.Error(t, err, "only needs a key")
}

func TestFilterCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	for _, args := range [][]string{
		{"filter", "create", "n", testForm},
		{"filter", "list"},
		{"filter", "show", "id"},
		{"filter", "delete", "id"},
		{"filter", "add", "id", "k"},
		{"filter", "commit", "id"},
		{"filter", "revert", "id"},
		{"filter", "export", "id"},
	} {
		_, err := executeCommand(args...)
		assert.ErrorIs(t, err, errFiltersNotConfigured, args)
	}
}
