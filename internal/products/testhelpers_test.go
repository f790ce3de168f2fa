package product

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
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
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), admin.NewLog(conn, nil))
	require.NoError(t, err)
	return svc
}

func seedCollection(t *testing.T, conn *gorm.DB, title string) models.Collection {
	t.Helper()

	c := models.Collection{Title: title}
	require.NoError(t, conn.Create(&c).Error)
	return c
}

func seedProduct(t *testing.T, conn *gorm.DB, collection models.Collection, title string, inventory int) models.Product {
	t.Helper()

	p := models.Product{
		Title:        title,
		Slug:         title + "-slug",
		UnitPrice:    decimal.RequireFromString("12.50"),
		Inventory:    inventory,
		CollectionID: collection.ID,
	}
	require.NoError(t, conn.Omit("Collection", "Promotions").Create(&p).Error)
	return p
}
