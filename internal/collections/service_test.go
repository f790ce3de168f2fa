package collections

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
)

func setupCollectionTestDB(t *testing.T) (*gorm.DB, Service) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(models.All()...))

	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), admin.NewLog(conn, nil))
	require.NoError(t, err)
	return conn, svc
}

func seedCollection(t *testing.T, conn *gorm.DB, title string, products int) models.Collection {
	t.Helper()

	c := models.Collection{Title: title}
	require.NoError(t, conn.Create(&c).Error)
	for i := 0; i < products; i++ {
		p := models.Product{
			Title:        title + " item",
			Slug:         title + "-item-" + string(rune('a'+i)),
			UnitPrice:    decimal.NewFromInt(3),
			Inventory:    1,
			CollectionID: c.ID,
		}
		require.NoError(t, conn.Omit("Collection", "Promotions").Create(&p).Error)
	}
	return c
}

func listParams(t *testing.T, values url.Values) admin.ListParams {
	t.Helper()

	params, err := admin.ParseListParams(values, Admin)
	require.NoError(t, err)
	return params
}

func TestProductsLink(t *testing.T) {
	assert.Equal(t, "/admin/store/product/?collection__id=4", ProductsURL(4))
	assert.Equal(t, `<a href="/admin/store/product/?collection__id=4" >12</a>`, ProductsLink(4, 12))
}

func TestListAnnotatesProductCounts(t *testing.T) {
	conn, svc := setupCollectionTestDB(t)
	kitchen := seedCollection(t, conn, "Kitchen", 3)
	seedCollection(t, conn, "Garden", 0)
	seedCollection(t, conn, "Bath", 1)

	list, err := svc.List(context.Background(), listParams(t, url.Values{}))
	require.NoError(t, err)
	require.Len(t, list.Results, 3)

	counts := map[string]int64{}
	for _, row := range list.Results {
		counts[row.Title] = row.ProductsCount
	}
	assert.Equal(t, map[string]int64{"Bath": 1, "Garden": 0, "Kitchen": 3}, counts)
	assert.Equal(t, "Bath", list.Results[0].Title)
	assert.Equal(t, int64(3), list.Count)

	kitchenRow := list.Results[2]
	assert.Equal(t, kitchen.ID, kitchenRow.ID)
	assert.Equal(t, ProductsURL(kitchen.ID), kitchenRow.ProductsCountURL)
	assert.Contains(t, kitchenRow.ProductsCountHTML, ">3</a>")
}

func TestListSortsByProductCount(t *testing.T) {
	conn, svc := setupCollectionTestDB(t)
	seedCollection(t, conn, "Kitchen", 3)
	seedCollection(t, conn, "Garden", 0)
	seedCollection(t, conn, "Bath", 1)

	list, err := svc.List(context.Background(), listParams(t, url.Values{"o": {"-products_count"}}))
	require.NoError(t, err)
	got := []string{list.Results[0].Title, list.Results[1].Title, list.Results[2].Title}
	assert.Equal(t, []string{"Kitchen", "Bath", "Garden"}, got)

	searched, err := svc.List(context.Background(), listParams(t, url.Values{"q": {"kit"}}))
	require.NoError(t, err)
	require.Len(t, searched.Results, 1)
	assert.Equal(t, int64(3), searched.Results[0].ProductsCount)
}

func TestDeleteProtectsCollectionsWithProducts(t *testing.T) {
	conn, svc := setupCollectionTestDB(t)
	kitchen := seedCollection(t, conn, "Kitchen", 2)
	garden := seedCollection(t, conn, "Garden", 0)

	_, err := svc.Delete(context.Background(), 1, kitchen.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))

	_, err = svc.RunAction(context.Background(), 1, admin.ActionRequest{Action: admin.ActionDeleteSelected, IDs: []uint{kitchen.ID, garden.ID}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))

	msg, err := svc.Delete(context.Background(), 1, garden.ID)
	require.NoError(t, err)
	assert.Equal(t, "The collection “Garden” was deleted successfully.", msg.Message)
}

func TestCreateUpdateAndHistory(t *testing.T) {
	_, svc := setupCollectionTestDB(t)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, 4, CollectionInput{Title: "  Toys "})
	require.NoError(t, err)
	assert.Equal(t, "Toys", created.Title)

	_, _, err = svc.Create(ctx, 4, CollectionInput{Title: " "})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	updated, msg, err := svc.Update(ctx, 4, created.ID, CollectionInput{Title: "Toys & Games"})
	require.NoError(t, err)
	assert.Equal(t, "Toys & Games", updated.Title)
	assert.Equal(t, int64(0), updated.ProductsCount)
	assert.Equal(t, "success", msg.Level)

	history, err := svc.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, `[{"changed":{"fields":["Title"]}}]`, history[1].ChangeMessage)

	_, err = svc.Get(ctx, 999)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestAutocompleteCollections(t *testing.T) {
	conn, svc := setupCollectionTestDB(t)
	seedCollection(t, conn, "Kitchen", 0)
	seedCollection(t, conn, "Kitchenware", 0)
	seedCollection(t, conn, "Garden", 0)

	result, err := svc.Autocomplete(context.Background(), "KITCHEN", 1)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Kitchen", result.Results[0].Text)
}
