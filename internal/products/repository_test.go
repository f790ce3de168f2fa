package product

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
)

func listParams(t *testing.T, values url.Values) admin.ListParams {
	t.Helper()

	params, err := admin.ParseListParams(values, Admin)
	require.NoError(t, err)
	return params
}

func titles(rows []models.Product) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title)
	}
	return out
}

func TestInventoryStatus(t *testing.T) {
	assert.Equal(t, "Low", InventoryStatus(0))
	assert.Equal(t, "Low", InventoryStatus(LowInventoryThreshold-1))
	assert.Equal(t, "OK", InventoryStatus(LowInventoryThreshold))
	assert.Equal(t, "OK", InventoryStatus(500))
}

func TestRepositoryListJoinsCollectionAndOrdersByTitle(t *testing.T) {
	conn := setupProductTestDB(t)
	kitchen := seedCollection(t, conn, "Kitchen")
	seedProduct(t, conn, kitchen, "Teapot", 3)
	seedProduct(t, conn, kitchen, "Mug", 40)
	seedProduct(t, conn, kitchen, "Bowl", 9)

	rows, page, err := NewRepository(conn).List(context.Background(), listParams(t, url.Values{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Bowl", "Mug", "Teapot"}, titles(rows))
	assert.Equal(t, int64(3), page.Count)
	require.NotNil(t, rows[0].Collection)
	assert.Equal(t, "Kitchen", rows[0].Collection.Title)
}

func TestRepositoryListLowInventoryFilter(t *testing.T) {
	conn := setupProductTestDB(t)
	kitchen := seedCollection(t, conn, "Kitchen")
	seedProduct(t, conn, kitchen, "Empty", 0)
	seedProduct(t, conn, kitchen, "Nine", 9)
	seedProduct(t, conn, kitchen, "Ten", 10)
	seedProduct(t, conn, kitchen, "Plenty", 300)

	repo := NewRepository(conn)

	low, _, err := repo.List(context.Background(), listParams(t, url.Values{"inventory": {"<10"}}))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Empty", "Nine"}, titles(low))
	for _, p := range low {
		assert.Less(t, p.Inventory, LowInventoryThreshold)
	}

	unknown, _, err := repo.List(context.Background(), listParams(t, url.Values{"inventory": {"<5"}}))
	require.NoError(t, err)
	assert.Len(t, unknown, 4)
}

func TestRepositoryListCollectionFilterAndSearch(t *testing.T) {
	conn := setupProductTestDB(t)
	kitchen := seedCollection(t, conn, "Kitchen")
	garden := seedCollection(t, conn, "Garden")
	seedProduct(t, conn, kitchen, "Blue Mug", 20)
	seedProduct(t, conn, garden, "Blue Hose", 20)
	seedProduct(t, conn, garden, "Green Hose", 20)

	repo := NewRepository(conn)
	ctx := context.Background()

	inGarden, _, err := repo.List(ctx, listParams(t, url.Values{"collection__id": {strconv.FormatUint(uint64(garden.ID), 10)}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Hose", "Green Hose"}, titles(inGarden))

	exact, _, err := repo.List(ctx, listParams(t, url.Values{"collection__id__exact": {strconv.FormatUint(uint64(kitchen.ID), 10)}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Mug"}, titles(exact))

	searched, _, err := repo.List(ctx, listParams(t, url.Values{"q": {"BLUE hose"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Hose"}, titles(searched))

	_, _, err = repo.List(ctx, listParams(t, url.Values{"collection__id": {"garden"}}))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestRepositoryListSearchMatchesNonASCIITitles(t *testing.T) {
	conn := setupProductTestDB(t)
	maps := seedCollection(t, conn, "Maps")
	seedProduct(t, conn, maps, "Straße Map", 20)
	seedProduct(t, conn, maps, "Strasse Atlas", 20)

	rows, _, err := NewRepository(conn).List(context.Background(), listParams(t, url.Values{"q": {"Straße"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Straße Map"}, titles(rows))
}

func TestRepositoryListLastUpdateFilter(t *testing.T) {
	conn := setupProductTestDB(t)
	kitchen := seedCollection(t, conn, "Kitchen")
	old := seedProduct(t, conn, kitchen, "Old", 20)
	seedProduct(t, conn, kitchen, "Fresh", 20)
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", old.ID).
		UpdateColumn("last_update", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).Error)

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")

	rows, _, err := NewRepository(conn).List(context.Background(), listParams(t, url.Values{
		"last_update__gte": {weekAgo},
		"last_update__lt":  {tomorrow},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh"}, titles(rows))
}

func TestRepositoryListOrdersByInventoryStatusColumn(t *testing.T) {
	conn := setupProductTestDB(t)
	kitchen := seedCollection(t, conn, "Kitchen")
	seedProduct(t, conn, kitchen, "A", 50)
	seedProduct(t, conn, kitchen, "B", 1)
	seedProduct(t, conn, kitchen, "C", 20)

	rows, _, err := NewRepository(conn).List(context.Background(), listParams(t, url.Values{"o": {"-inventory_status"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, titles(rows))
}

func TestRepositoryClearInventoryTouchesOnlySelectedRows(t *testing.T) {
	conn := setupProductTestDB(t)
	kitchen := seedCollection(t, conn, "Kitchen")
	a := seedProduct(t, conn, kitchen, "A", 50)
	b := seedProduct(t, conn, kitchen, "B", 5)
	c := seedProduct(t, conn, kitchen, "C", 20)

	repo := NewRepository(conn)
	updated, err := repo.ClearInventory(context.Background(), []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	rows, err := repo.FindByIDs(context.Background(), []uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].Inventory)
	assert.Equal(t, 0, rows[1].Inventory)
	assert.Equal(t, 20, rows[2].Inventory)
}

func TestRepositoryCollectionChoices(t *testing.T) {
	conn := setupProductTestDB(t)
	seedCollection(t, conn, "Kitchen")
	seedCollection(t, conn, "Garden")

	choices, err := NewRepository(conn).CollectionChoices(context.Background())
	require.NoError(t, err)
	require.Len(t, choices, 2)
	assert.Equal(t, "Garden", choices[0].Label)
	assert.Equal(t, "Kitchen", choices[1].Label)
}
