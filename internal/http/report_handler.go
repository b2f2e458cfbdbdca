package http

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/flash"
	"github.com/karloscodes/cartridge/inertia"
	"github.com/karloscodes/cartridge/structs"

	"shoplens/internal/config"
	"shoplens/internal/http/middleware"
	"shoplens/internal/presets"
	"shoplens/internal/report"
)

// presetFields are the report query parameters a saved preset captures.
var presetFields = []string{
	"q", "tags", "tags_mode",
	"min_orders", "max_orders", "min_spent", "max_spent",
	"created_start", "created_end", "first_order_start", "first_order_end",
	"sort", "per_page",
}

// ReportIndexAction renders the filterable customer report, or streams the
// full filtered set as CSV when export=csv is requested.
func ReportIndexAction(ctx *cartridge.Context) error {
	cfg := ctx.Config.(*config.Config)

	shop := middleware.CurrentShop(ctx.Ctx)
	if shop == nil {
		ctx.Logger.Warn("Report page accessed without a resolved shop")
		return ctx.Status(fiber.StatusNotFound).SendString("No shop installed")
	}

	params := report.ParseParams(func(key string) string { return ctx.Query(key) })
	api := newCommerceAPI(shop, cfg)
	reqCtx := ctx.Ctx.UserContext()

	if ctx.Query("export") == "csv" {
		customers, err := report.FetchAllCustomers(reqCtx, api, cfg.CommercePageSize)
		if err != nil {
			ctx.Logger.Error("Error fetching customers for export", slog.Any("error", err))
			return ctx.Status(fiber.StatusBadGateway).SendString("Error fetching customer data")
		}

		filtered := report.Filter(customers, params)
		report.Sort(filtered, params.Sort)

		ctx.Logger.Info("Report CSV export",
			slog.String("shop", shop.Domain),
			slog.Int("rows", len(filtered)))

		ctx.Set("Content-Type", report.ContentTypeCSV)
		ctx.Set("Content-Disposition", "attachment; filename="+report.ExportFilename(time.Now()))
		return report.WriteCSV(ctx.Response().BodyWriter(), filtered)
	}

	result, err := report.Run(reqCtx, api, params, cfg.CommercePageSize)
	if err != nil {
		ctx.Logger.Error("Error building customer report", slog.Any("error", err))
		return ctx.Status(fiber.StatusBadGateway).SendString("Error fetching customer data")
	}

	presetList, err := presets.ListPresets(ctx.DB(), shop.ID)
	if err != nil {
		ctx.Logger.Error("Failed to list report presets", slog.Any("error", err))
		presetList = []presets.DecodedPreset{}
	}

	props := structs.Map(result)
	props["shop_domain"] = shop.Domain
	props["presets"] = presetList
	props["filters"] = currentFilters(ctx)

	return inertia.RenderPage(ctx.Ctx, "Report", props)
}

// ReportFormAction handles preset mutations behind the report page: saving
// the current filters under a name, or deleting a saved preset. Both paths
// redirect back to the report preserving the query string.
func ReportFormAction(ctx *cartridge.Context) error {
	shop := middleware.CurrentShop(ctx.Ctx)
	if shop == nil {
		return ctx.Status(fiber.StatusNotFound).SendString("No shop installed")
	}

	db := ctx.DB()

	switch ctx.FormValue("intent") {
	case "save":
		name := ctx.FormValue("report_name")
		config := presets.Config{}
		for _, field := range presetFields {
			if value := ctx.FormValue(field); value != "" {
				config[field] = value
			}
		}

		preset, err := presets.CreatePreset(db, shop.ID, name, config)
		if err != nil {
			var validation *presets.ValidationError
			if errors.As(err, &validation) {
				ctx.Logger.Warn("Preset validation failed", slog.String("field", validation.Field))
				flash.SetFlash(ctx.Ctx, "error", validation.Message)
			} else {
				ctx.Logger.Error("Failed to save report preset", slog.Any("error", err))
				flash.SetFlash(ctx.Ctx, "error", "Failed to save preset")
			}
			return redirectToReport(ctx)
		}

		ctx.Logger.Info("Report preset saved",
			slog.Uint64("id", uint64(preset.ID)),
			slog.String("name", preset.Name))
		flash.SetFlash(ctx.Ctx, "success", "Preset saved")

	case "delete":
		id, err := strconv.Atoi(ctx.FormValue("preset_id"))
		if err != nil || id < 1 {
			flash.SetFlash(ctx.Ctx, "error", "Invalid preset")
			return redirectToReport(ctx)
		}

		if err := presets.DeletePreset(db, uint(id)); err != nil {
			ctx.Logger.Error("Failed to delete report preset", slog.Any("error", err))
			flash.SetFlash(ctx.Ctx, "error", "Failed to delete preset")
			return redirectToReport(ctx)
		}

		ctx.Logger.Info("Report preset deleted", slog.Int("id", id))
		flash.SetFlash(ctx.Ctx, "success", "Preset deleted")

	default:
		flash.SetFlash(ctx.Ctx, "error", "Unknown action")
	}

	return redirectToReport(ctx)
}

func redirectToReport(ctx *cartridge.Context) error {
	target := "/admin/report"
	if query := string(ctx.Request().URI().QueryString()); query != "" {
		target += "?" + query
	}
	return ctx.Redirect(target, fiber.StatusFound)
}

func currentFilters(ctx *cartridge.Context) map[string]string {
	filters := map[string]string{}
	for _, field := range presetFields {
		if value := ctx.Query(field); value != "" {
			filters[field] = value
		}
	}
	return filters
}
