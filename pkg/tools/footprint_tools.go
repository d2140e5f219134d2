package tools

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/footprintmcp/pkg/core"
	"github.com/NERVsystems/footprintmcp/pkg/footprint"
	"github.com/NERVsystems/footprintmcp/pkg/monitoring"
	"github.com/NERVsystems/footprintmcp/pkg/tracing"
)

// GroupOutput is the result of a formula group tool
type GroupOutput struct {
	Group     string           `json:"group"`
	Tonnes    float64          `json:"tonnes"`
	Breakdown []footprint.Line `json:"breakdown"`
}

// groupInput is implemented by the per-group input structs of the footprint package
type groupInput interface {
	Validate() error
	Footprint() float64
	Breakdown() []footprint.Line
}

// handleGroup validates the input, computes the group total and its breakdown
func handleGroup[T groupInput](toolName, group string) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return WithParsedInput(toolName, func(ctx context.Context, input T, logger *slog.Logger) (interface{}, error) {
		if err := input.Validate(); err != nil {
			return nil, err
		}

		tonnes := input.Footprint()
		monitoring.RecordFootprint(group, tonnes)
		tracing.SetAttributes(ctx, tracing.FootprintAttributes(group, "", tonnes)...)
		logger.Debug("computed footprint", "group", group, "tonnes", tonnes)

		return GroupOutput{
			Group:     group,
			Tonnes:    tonnes,
			Breakdown: input.Breakdown(),
		}, nil
	})
}

var factory = core.NewToolFactory()

// FootprintComputingTool returns the computing group tool definition
func FootprintComputingTool() mcp.Tool {
	return factory.CreateQuantityTool("footprint_computing",
		"Annual CO2E footprint in tonnes of internet use, phone use and new devices bought this year",
		core.QuantityParam{Name: "daily_online_hours", Description: "Hours spent online per day"},
		core.QuantityParam{Name: "daily_phone_hours", Description: "Hours of phone use per day"},
		core.QuantityParam{Name: "new_light_devices", Description: "Phones, tablets and similar devices bought this year"},
		core.QuantityParam{Name: "new_medium_devices", Description: "Laptops bought this year"},
		core.QuantityParam{Name: "new_heavy_devices", Description: "Desktops and large screens bought this year"},
	)
}

// HandleFootprintComputing computes the computing footprint
func HandleFootprintComputing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleGroup[footprint.ComputingInput]("footprint_computing", footprint.GroupComputing)(ctx, req)
}

// FootprintDietTool returns the diet group tool definition
func FootprintDietTool() mcp.Tool {
	return factory.CreateQuantityTool("footprint_diet",
		"Annual CO2E footprint in tonnes of a diet: a vegan baseline plus meat, cheese, milk and eggs",
		core.QuantityParam{Name: "daily_meat_g", Description: "Grams of meat eaten per day"},
		core.QuantityParam{Name: "daily_cheese_g", Description: "Grams of cheese eaten per day"},
		core.QuantityParam{Name: "daily_milk_l", Description: "Litres of milk drunk per day"},
		core.QuantityParam{Name: "daily_eggs", Description: "Eggs eaten per day"},
	)
}

// HandleFootprintDiet computes the diet footprint
func HandleFootprintDiet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleGroup[footprint.DietInput]("footprint_diet", footprint.GroupDiet)(ctx, req)
}

// FootprintTransportationTool returns the local transportation group tool definition
func FootprintTransportationTool() mcp.Tool {
	return factory.CreateQuantityTool("footprint_transportation",
		"Annual CO2E footprint in tonnes of weekly local transportation: bus, rail, ride hailing and driving",
		core.QuantityParam{Name: "weekly_bus_rides", Description: "Bus trips per week"},
		core.QuantityParam{Name: "weekly_rail_rides", Description: "Metro or light rail trips per week"},
		core.QuantityParam{Name: "weekly_uber_rides", Description: "Taxi or ride hailing trips per week"},
		core.QuantityParam{Name: "weekly_km_driven", Description: "Kilometres driven per week"},
	)
}

// HandleFootprintTransportation computes the local transportation footprint
func HandleFootprintTransportation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleGroup[footprint.TransportationInput]("footprint_transportation", footprint.GroupTransportation)(ctx, req)
}

// FootprintTravelTool returns the long-distance travel group tool definition
func FootprintTravelTool() mcp.Tool {
	return factory.CreateQuantityTool("footprint_travel",
		"Annual CO2E footprint in tonnes of long-distance travel: flights, trains, coaches and hotel stays",
		core.QuantityParam{Name: "annual_long_flights", Description: "Long-haul flights per year"},
		core.QuantityParam{Name: "annual_short_flights", Description: "Short-haul flights per year"},
		core.QuantityParam{Name: "annual_train_rides", Description: "Intercity train rides per year"},
		core.QuantityParam{Name: "annual_coach_rides", Description: "Intercity coach rides per year"},
		core.QuantityParam{Name: "annual_hotel_spend", Description: "Money spent on hotels per year, in currency units"},
	)
}

// HandleFootprintTravel computes the long-distance travel footprint
func HandleFootprintTravel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleGroup[footprint.TravelInput]("footprint_travel", footprint.GroupTravel)(ctx, req)
}

// ActivityTransit takes weekly bus trips as quantity and weekly rail trips
// as second_quantity.
const ActivityTransit = footprint.ActivityTransit

// ActivityInput selects a single formula by name
type ActivityInput struct {
	Activity       string  `json:"activity"`
	Quantity       float64 `json:"quantity"`
	SecondQuantity float64 `json:"second_quantity"`
}

// ActivityOutput is the result of a single formula
type ActivityOutput struct {
	Activity string  `json:"activity"`
	Group    string  `json:"group"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
	Tonnes   float64 `json:"tonnes"`
}

// FootprintActivityTool returns the single-formula tool definition
func FootprintActivityTool() mcp.Tool {
	names := append(footprint.ActivityNames(), ActivityTransit)
	return mcp.NewTool("footprint_activity",
		mcp.WithDescription("Annual CO2E footprint in tonnes of one activity, e.g. meat or long_flights"),
		mcp.WithString("activity",
			mcp.Required(),
			mcp.Description("Activity name: "+strings.Join(names, ", ")),
			mcp.Enum(names...),
		),
		mcp.WithNumber("quantity",
			mcp.Required(),
			mcp.Description("Activity quantity in the unit of the activity"),
			mcp.Min(0),
		),
		mcp.WithNumber("second_quantity",
			mcp.Description("Weekly rail trips, only used by the transit activity"),
			mcp.Min(0),
			mcp.DefaultNumber(0),
		),
	)
}

// HandleFootprintActivity evaluates one named formula
func HandleFootprintActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return WithParsedInput("footprint_activity", func(ctx context.Context, input ActivityInput, logger *slog.Logger) (interface{}, error) {
		if input.Activity == "" {
			return nil, core.NewValidationError(core.ErrMissingParameter, "activity is required").
				WithField("activity")
		}
		if err := footprint.CheckQuantity("quantity", input.Quantity); err != nil {
			return nil, err
		}

		out := ActivityOutput{Activity: input.Activity, Quantity: input.Quantity}
		if input.Activity == ActivityTransit {
			if err := footprint.CheckQuantity("second_quantity", input.SecondQuantity); err != nil {
				return nil, err
			}
			out.Group = footprint.GroupTransportation
			out.Unit = "bus trips/week + rail trips/week"
			out.Tonnes = footprint.FromTransit(input.Quantity, input.SecondQuantity)
		} else {
			activity, ok := footprint.LookupActivity(input.Activity)
			if !ok {
				return nil, core.NewError(core.ErrUnknownActivity, "unknown activity: "+input.Activity).
					WithField("activity").
					WithGuidance("Use one of the listed activity names.").
					WithSuggestions(append(footprint.ActivityNames(), ActivityTransit)...)
			}
			out.Group = activity.Group
			out.Unit = activity.Unit
			out.Tonnes = activity.Compute(input.Quantity)
		}

		monitoring.RecordFootprint(out.Group, out.Tonnes)
		tracing.SetAttributes(ctx, tracing.FootprintAttributes(out.Group, out.Activity, out.Tonnes)...)
		return out, nil
	})(ctx, req)
}

// CoefficientsOutput lists the emission factors behind the formulas
type CoefficientsOutput struct {
	Coefficients []footprint.Coefficient `json:"coefficients"`
	Activities   []string                `json:"activities"`
}

// ListCoefficientsTool returns the coefficient catalogue tool definition
func ListCoefficientsTool() mcp.Tool {
	return mcp.NewTool("list_coefficients",
		mcp.WithDescription("List every emission coefficient with its unit and cited source, optionally for one group"),
		mcp.WithString("group",
			mcp.Description("Restrict to one formula group"),
			mcp.Enum(footprint.Groups...),
		),
	)
}

// ListCoefficientsInput optionally filters by group
type ListCoefficientsInput struct {
	Group string `json:"group"`
}

// HandleListCoefficients returns the coefficient catalogue
func HandleListCoefficients(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return WithParsedInput("list_coefficients", func(ctx context.Context, input ListCoefficientsInput, logger *slog.Logger) (interface{}, error) {
		if input.Group != "" && !isGroup(input.Group) {
			return nil, core.NewValidationError(core.ErrInvalidParameter, "unknown group: "+input.Group).
				WithField("group").
				WithSuggestions(footprint.Groups...)
		}

		out := CoefficientsOutput{Activities: append(footprint.ActivityNames(), ActivityTransit)}
		for _, c := range footprint.Coefficients() {
			if input.Group == "" || c.Group == input.Group {
				out.Coefficients = append(out.Coefficients, c)
			}
		}
		return out, nil
	})(ctx, req)
}

func isGroup(name string) bool {
	for _, g := range footprint.Groups {
		if g == name {
			return true
		}
	}
	return false
}
