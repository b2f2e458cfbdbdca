package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shoplens/internal/shops"
)

// ShopFilter resolves the shop a request operates on and stores it in
// request locals. The domain comes from the X-Shop-Domain header when set;
// otherwise the first installed shop is used.
func ShopFilter(db *gorm.DB, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		domain := c.Get("X-Shop-Domain")
		if domain != "" {
			shop, err := shops.GetShopByDomain(db, domain)
			if err != nil {
				logger.Warn("Unknown shop domain requested",
					slog.String("domain", domain),
					slog.Any("error", err))
				return c.Status(fiber.StatusNotFound).SendString("Shop not found")
			}
			c.Locals("shop", shop)
			return c.Next()
		}

		shop, err := shops.GetFirstShop(db)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				logger.Warn("No shops installed")
				return c.Status(fiber.StatusNotFound).SendString("No shop installed")
			}
			logger.Error("Failed to resolve default shop", slog.Any("error", err))
			return c.Status(fiber.StatusInternalServerError).SendString("Shop resolution failed")
		}

		c.Locals("shop", shop)
		return c.Next()
	}
}

// CurrentShop reads the shop resolved by ShopFilter from request locals.
func CurrentShop(c *fiber.Ctx) *shops.Shop {
	shop, _ := c.Locals("shop").(*shops.Shop)
	return shop
}
