package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

const testForm = "label.region"

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "attrfilter-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testElements(n int) []domain.Element {
	elements := make([]domain.Element, 0, n)
	for i := 0; i < n; i++ {
		elements = append(elements, domain.Element{
			URI:   fmt.Sprintf("/elements/%d", i),
			Value: fmt.Sprintf("value-%d", i),
			Title: fmt.Sprintf("Element %02d", i),
		})
	}
	return elements
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, "attrfilter.db", filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.up.sql":    {Data: []byte("SELECT 1;")},
		"002_second.up.sql":   {Data: []byte("SELECT 1;")},
		"002_second.down.sql": {Data: []byte("SELECT 1;")},
		"001_first.up.sql":    {Data: []byte("SELECT 1;")},
		"README.md":           {Data: []byte("notes")},
	}

	pending, err := pendingMigrations(fsys, 1)

	require.NoError(t, err)
	assert.Equal(t, []migration{
		{version: 2, name: "002_second.up.sql"},
		{version: 10, name: "010_later.up.sql"},
	}, pending)
}

func TestPendingMigrations_BadName(t *testing.T) {
	fsys := fstest.MapFS{"initial.up.sql": {Data: []byte("SELECT 1;")}}

	_, err := pendingMigrations(fsys, 0)

	assert.Error(t, err)
}

func TestMigrate_FailedMigrationRollsBack(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	fsys := fstest.MapFS{
		"005_broken.up.sql": {Data: []byte("CREATE TABLE half (id INTEGER); NOT SQL;")},
	}

	err := store.migrate(context.Background(), fsys)
	require.Error(t, err)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.ElementStore().SaveElements(context.Background(), testForm, testElements(2)))
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	page, err := store.ElementStore().LoadElements(context.Background(), testForm, domain.LoadOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
}

func TestElementStore_LoadElements_Paging(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	elements := store.ElementStore()
	require.NoError(t, elements.SaveElements(ctx, testForm, testElements(7)))

	page, err := elements.LoadElements(ctx, testForm, domain.LoadOptions{Offset: 3, Limit: 3})
	require.NoError(t, err)

	want := domain.Page{Offset: 3, Limit: 3, TotalCount: 7, Elements: testElements(7)[3:6]}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("LoadElements() mismatch (-want +got):\n%s", diff)
	}

	page, err = elements.LoadElements(ctx, testForm, domain.LoadOptions{Offset: 20, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Elements)
	assert.Equal(t, 7, page.TotalCount)
}

func TestElementStore_LoadElements_SearchOrderKeys(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	elements := store.ElementStore()
	require.NoError(t, elements.SaveElements(ctx, testForm, []domain.Element{
		{URI: "/r/1", Value: "west", Title: "West"},
		{URI: "/r/2", Value: "east", Title: "East"},
		{URI: "/r/3", Value: "north", Title: "North"},
		{URI: "/r/4", Value: "100%", Title: "100% Growth"},
	}))

	page, err := elements.LoadElements(ctx, testForm, domain.LoadOptions{Limit: 10, Search: "EST"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "West", page.Elements[0].Title)

	page, err = elements.LoadElements(ctx, testForm, domain.LoadOptions{Limit: 10, Search: "%"})
	require.NoError(t, err)
	require.Len(t, page.Elements, 1)
	assert.Equal(t, "/r/4", page.Elements[0].URI)

	page, err = elements.LoadElements(ctx, testForm, domain.LoadOptions{Limit: 2, Order: domain.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, "West", page.Elements[0].Title)
	assert.Equal(t, "North", page.Elements[1].Title)

	page, err = elements.LoadElements(ctx, testForm, domain.LoadOptions{Limit: 10, Order: domain.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, "100% Growth", page.Elements[0].Title)

	page, err = elements.LoadElements(ctx, testForm, domain.LoadOptions{
		Limit: 10,
		Keys:  []string{"north", "east", "missing"},
		By:    domain.ElementsByValue,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "/r/2", page.Elements[0].URI)
	assert.Equal(t, "/r/3", page.Elements[1].URI)
}

func TestElementStore_LoadElements_UnknownDisplayForm(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.ElementStore().LoadElements(context.Background(), "missing", domain.LoadOptions{Limit: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestElementStore_SaveElements_UpsertKeepsPosition(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	elements := store.ElementStore()
	require.NoError(t, elements.SaveElements(ctx, testForm, testElements(3)))

	require.NoError(t, elements.SaveElements(ctx, testForm, []domain.Element{
		{URI: "/elements/0", Value: "value-0", Title: "Renamed"},
		{URI: "/elements/9", Value: "value-9", Title: "Appended"},
	}))

	page, err := elements.LoadElements(ctx, testForm, domain.LoadOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Elements, 4)
	assert.Equal(t, "Renamed", page.Elements[0].Title)
	assert.Equal(t, "Appended", page.Elements[3].Title)
}

func TestElementStore_SaveElements_RequiresURI(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.ElementStore().SaveElements(ctx, testForm, []domain.Element{{Title: "no uri"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// The failed batch is rolled back.
	_, err = store.ElementStore().LoadElements(ctx, testForm, domain.LoadOptions{Limit: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestElementStore_DisplayForms(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	elements := store.ElementStore()

	forms, err := elements.ListDisplayForms(ctx)
	require.NoError(t, err)
	assert.Empty(t, forms)

	require.NoError(t, elements.SaveElements(ctx, testForm, testElements(1)))
	require.NoError(t, elements.SaveElements(ctx, "label.city", testElements(1)))

	forms, err = elements.ListDisplayForms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"label.city", testForm}, forms)

	require.NoError(t, elements.DeleteElements(ctx, "label.city"))
	forms, err = elements.ListDisplayForms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{testForm}, forms)
}

func testFilter(id string, created time.Time) *domain.SavedFilter {
	return &domain.SavedFilter{
		ID:          id,
		Name:        "Filter " + id,
		DisplayForm: testForm,
		ElementsBy:  domain.ElementsByValue,
		Mode:        domain.SelectionModeMulti,
		Working:     domain.Selection{Inverted: true, Items: domain.NewKeySet("west", "east")},
		Committed:   domain.SelectOnly("north"),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestFilterStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	filters := store.FilterStore()

	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, filters.Save(ctx, testFilter("f1", created)))

	got, err := filters.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Filter f1", got.Name)
	assert.Equal(t, domain.ElementsByValue, got.ElementsBy)
	assert.Equal(t, domain.SelectionModeMulti, got.Mode)
	assert.True(t, got.Working.Inverted)
	assert.Equal(t, []string{"west", "east"}, got.Working.Items.Keys())
	assert.True(t, got.Committed.Equal(domain.SelectOnly("north")))
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestFilterStore_SaveUpdates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	filters := store.FilterStore()

	f := testFilter("f1", time.Now())
	require.NoError(t, filters.Save(ctx, f))

	f.Name = "Renamed"
	f.Working = domain.SelectAll()
	require.NoError(t, filters.Save(ctx, f))

	got, err := filters.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.Working.Equal(domain.SelectAll()))
}

func TestFilterStore_SaveInvalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.FilterStore().Save(context.Background(), &domain.SavedFilter{ID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFilterStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.FilterStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFilterStore_ListAndDelete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	filters := store.FilterStore()

	now := time.Now().UTC()
	require.NoError(t, filters.Save(ctx, testFilter("b", now.Add(time.Hour))))
	require.NoError(t, filters.Save(ctx, testFilter("a", now)))

	list, err := filters.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	require.NoError(t, filters.Delete(ctx, "a"))
	assert.ErrorIs(t, filters.Delete(ctx, "a"), domain.ErrNotFound)

	list, err = filters.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
