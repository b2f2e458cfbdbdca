package middleware

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shoplens/internal/shops"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&shops.Shop{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFilterApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	app.Get("/probe", ShopFilter(db, testLogger()), func(c *fiber.Ctx) error {
		shop := CurrentShop(c)
		if shop == nil {
			return c.Status(fiber.StatusInternalServerError).SendString("no shop in locals")
		}
		return c.SendString(shop.Domain)
	})
	return app
}

func TestShopFilterDefaultsToFirstShop(t *testing.T) {
	db := setupTestDB(t)
	_, err := shops.CreateShop(db, "first.example.com", "token-1")
	require.NoError(t, err)
	_, err = shops.CreateShop(db, "second.example.com", "token-2")
	require.NoError(t, err)

	app := newFilterApp(db)
	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "first.example.com", string(body))
}

func TestShopFilterHonorsDomainHeader(t *testing.T) {
	db := setupTestDB(t)
	_, err := shops.CreateShop(db, "first.example.com", "token-1")
	require.NoError(t, err)
	_, err = shops.CreateShop(db, "second.example.com", "token-2")
	require.NoError(t, err)

	app := newFilterApp(db)
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("X-Shop-Domain", "second.example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "second.example.com", string(body))
}

func TestShopFilterUnknownDomain(t *testing.T) {
	db := setupTestDB(t)
	_, err := shops.CreateShop(db, "first.example.com", "token-1")
	require.NoError(t, err)

	app := newFilterApp(db)
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("X-Shop-Domain", "missing.example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestShopFilterNoShopsInstalled(t *testing.T) {
	db := setupTestDB(t)

	app := newFilterApp(db)
	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
