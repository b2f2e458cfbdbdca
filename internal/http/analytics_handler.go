package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/inertia"
	"github.com/karloscodes/cartridge/structs"

	"shoplens/internal/commerce"
	"shoplens/internal/config"
	"shoplens/internal/daterange"
	"shoplens/internal/http/middleware"
	"shoplens/internal/insights"
	"shoplens/internal/shops"
)

// newCommerceAPI builds the upstream client for a shop. Tests swap this out
// to run handlers against a fake upstream.
var newCommerceAPI = func(shop *shops.Shop, cfg *config.Config) commerce.API {
	return commerce.NewClient(
		shop.Domain,
		shop.AccessToken,
		cfg.CommerceAPIVersion,
		time.Duration(cfg.CommerceTimeoutSeconds)*time.Second,
	)
}

// AnalyticsResponse is the page payload for the analytics view.
type AnalyticsResponse struct {
	Overview     *insights.Overview           `json:"overview"`
	NewCustomers *insights.NewCustomersReport `json:"new_customers"`
	Lookup       *insights.LookupResult       `json:"lookup"`
	StartDate    string                       `json:"start_date"`
	EndDate      string                       `json:"end_date"`
}

// AnalyticsIndexAction renders the customer analytics page: CLV overview,
// new-customer cohort for the selected window, and an optional single
// customer lookup with referral attribution.
func AnalyticsIndexAction(ctx *cartridge.Context) error {
	cfg := ctx.Config.(*config.Config)

	shop := middleware.CurrentShop(ctx.Ctx)
	if shop == nil {
		ctx.Logger.Warn("Analytics page accessed without a resolved shop")
		return ctx.Status(fiber.StatusNotFound).SendString("No shop installed")
	}

	parser := daterange.NewParser()
	window := parser.Parse(ctx.Query("start"), ctx.Query("end"))

	ctx.Logger.Info("Analytics page accessed",
		slog.String("shop", shop.Domain),
		slog.String("start", window.StartISO()),
		slog.String("end", window.EndISO()))

	api := newCommerceAPI(shop, cfg)
	reqCtx := ctx.Ctx.UserContext()

	overview, err := insights.FetchOverview(reqCtx, api, insights.OverviewConfig{
		PageSize:    cfg.CommercePageSize,
		CustomerCap: cfg.AnalyticsCustomerCap,
		TopCount:    cfg.AnalyticsTopCustomerCount,
	})
	if err != nil {
		ctx.Logger.Error("Error fetching customer overview", slog.Any("error", err))
		return ctx.Status(fiber.StatusBadGateway).SendString("Error fetching customer data")
	}

	newCustomers, err := insights.FetchNewCustomers(reqCtx, api, window, insights.NewCustomersConfig{
		PageSize: cfg.CommercePageSize,
		OrderCap: cfg.AnalyticsOrderCap,
	})
	if err != nil {
		ctx.Logger.Error("Error fetching new customers", slog.Any("error", err))
		return ctx.Status(fiber.StatusBadGateway).SendString("Error fetching order data")
	}

	lookup, err := insights.LookupCustomer(reqCtx, api, ctx.Query("customer_email"))
	if err != nil {
		ctx.Logger.Error("Error looking up customer", slog.Any("error", err))
		return ctx.Status(fiber.StatusBadGateway).SendString("Error fetching customer data")
	}

	response := AnalyticsResponse{
		Overview:     overview,
		NewCustomers: newCustomers,
		Lookup:       lookup,
		StartDate:    window.StartISO(),
		EndDate:      window.EndISO(),
	}

	props := structs.Map(response)
	props["shop_domain"] = shop.Domain
	props["customer_email"] = ctx.Query("customer_email")

	return inertia.RenderPage(ctx.Ctx, "Analytics", props)
}
