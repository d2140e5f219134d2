package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/footprintmcp/pkg/cache"
	"github.com/NERVsystems/footprintmcp/pkg/footprint"
	"github.com/NERVsystems/footprintmcp/pkg/monitoring"
	"github.com/NERVsystems/footprintmcp/pkg/tracing"
)

// ReportOutput is a whole-profile report with rounded presentation totals
type ReportOutput struct {
	footprint.Report
	Rounded map[string]float64 `json:"rounded"`
	Cached  bool               `json:"cached"`
}

// FootprintReportTool returns the whole-profile tool definition
func FootprintReportTool() mcp.Tool {
	return mcp.NewTool("footprint_report",
		mcp.WithDescription("Annual CO2E footprint in tonnes of a whole lifestyle profile, per group and in total, with one line per formula. Omitted groups and fields count as zero; the diet group always includes the vegan baseline."),
		mcp.WithObject("computing",
			mcp.Description("daily_online_hours, daily_phone_hours, new_light_devices, new_medium_devices, new_heavy_devices"),
		),
		mcp.WithObject("diet",
			mcp.Description("daily_meat_g, daily_cheese_g, daily_milk_l, daily_eggs"),
		),
		mcp.WithObject("transportation",
			mcp.Description("weekly_bus_rides, weekly_rail_rides, weekly_uber_rides, weekly_km_driven"),
		),
		mcp.WithObject("travel",
			mcp.Description("annual_long_flights, annual_short_flights, annual_train_rides, annual_coach_rides, annual_hotel_spend"),
		),
	)
}

// HandleFootprintReport builds the footprint_report handler around a report cache
func HandleFootprintReport(reports *cache.ReportCache) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return WithParsedInput("footprint_report", func(ctx context.Context, p footprint.Profile, logger *slog.Logger) (interface{}, error) {
		report, hit, err := reports.Report(p)
		if err != nil {
			return nil, err
		}
		tracing.SetAttributes(ctx, tracing.CacheAttributes(tracing.CacheTypeReport, hit)...)
		if hit {
			tracing.AddEvent(ctx, "report served from cache")
		}

		rounded := make(map[string]float64, len(footprint.Groups)+1)
		for _, g := range footprint.Groups {
			total, _ := report.GroupTotal(g)
			rounded[g] = footprint.Round(total, 4)
			if !hit {
				monitoring.RecordFootprint(g, total)
			}
		}
		rounded["total"] = footprint.Round(report.Total, 4)

		logger.Debug("computed report", "total", report.Total, "cached", hit)
		return ReportOutput{Report: report, Rounded: rounded, Cached: hit}, nil
	})
}
