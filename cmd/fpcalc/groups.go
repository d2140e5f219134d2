package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

// groupInput is implemented by the four per-group inputs.
type groupInput interface {
	Validate() error
	Footprint() float64
	Breakdown() []footprint.Line
}

type groupResult struct {
	Group     string           `json:"group"`
	Tonnes    float64          `json:"tonnes"`
	Breakdown []footprint.Line `json:"breakdown"`
}

func runGroup(cmd *cobra.Command, opts *outputOptions, group string, in groupInput) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%s: %w", group, err)
	}

	res := groupResult{Group: group, Tonnes: in.Footprint(), Breakdown: in.Breakdown()}
	if opts.json {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return writeLines(cmd.OutOrStdout(), res.Breakdown, res.Tonnes, opts.precision)
}

func computingCmd(opts *outputOptions) *cobra.Command {
	var in footprint.ComputingInput
	cmd := &cobra.Command{
		Use:   "computing",
		Short: "Footprint of internet use and new devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd, opts, footprint.GroupComputing, in)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.DailyOnlineHours, "online-hours", 0, "Hours online per day")
	f.Float64Var(&in.DailyPhoneHours, "phone-hours", 0, "Hours on the phone per day")
	f.Float64Var(&in.NewLightDevices, "light-devices", 0, "New light devices per year (phones, tablets)")
	f.Float64Var(&in.NewMediumDevices, "medium-devices", 0, "New medium devices per year (laptops)")
	f.Float64Var(&in.NewHeavyDevices, "heavy-devices", 0, "New heavy devices per year (desktops, TVs)")
	return cmd
}

func dietCmd(opts *outputOptions) *cobra.Command {
	var in footprint.DietInput
	cmd := &cobra.Command{
		Use:   "diet",
		Short: "Footprint of a diet on top of the vegan baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd, opts, footprint.GroupDiet, in)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.DailyMeatGrams, "meat-g", 0, "Grams of meat per day")
	f.Float64Var(&in.DailyCheeseGrams, "cheese-g", 0, "Grams of cheese per day")
	f.Float64Var(&in.DailyMilkLitres, "milk-l", 0, "Litres of milk per day")
	f.Float64Var(&in.DailyEggs, "eggs", 0, "Eggs per day")
	return cmd
}

func transportationCmd(opts *outputOptions) *cobra.Command {
	var in footprint.TransportationInput
	cmd := &cobra.Command{
		Use:   "transportation",
		Short: "Footprint of weekly local transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd, opts, footprint.GroupTransportation, in)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.WeeklyBusRides, "bus-rides", 0, "Bus rides per week")
	f.Float64Var(&in.WeeklyRailRides, "rail-rides", 0, "Rail rides per week")
	f.Float64Var(&in.WeeklyUberRides, "uber-rides", 0, "Taxi or ride-hailing rides per week")
	f.Float64Var(&in.WeeklyKmDriven, "km-driven", 0, "Kilometres driven per week")
	return cmd
}

func travelCmd(opts *outputOptions) *cobra.Command {
	var in footprint.TravelInput
	cmd := &cobra.Command{
		Use:   "travel",
		Short: "Footprint of annual long-distance travel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd, opts, footprint.GroupTravel, in)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.AnnualLongFlights, "long-flights", 0, "Long-haul flights per year")
	f.Float64Var(&in.AnnualShortFlights, "short-flights", 0, "Short-haul flights per year")
	f.Float64Var(&in.AnnualTrainRides, "train-rides", 0, "Long-distance train rides per year")
	f.Float64Var(&in.AnnualCoachRides, "coach-rides", 0, "Coach rides per year")
	f.Float64Var(&in.AnnualHotelSpend, "hotel-spend", 0, "Money spent on hotels per year")
	return cmd
}

type activityResult struct {
	Activity       string  `json:"activity"`
	Group          string  `json:"group"`
	Quantity       float64 `json:"quantity"`
	SecondQuantity float64 `json:"second_quantity,omitempty"`
	Unit           string  `json:"unit"`
	Tonnes         float64 `json:"tonnes"`
}

func parseQuantity(name, arg string) (float64, error) {
	q, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("%s quantity: %w", name, err)
	}
	if err := footprint.CheckQuantity(name, q); err != nil {
		return 0, err
	}
	return q, nil
}

// transitResult evaluates FromTransit, the one formula with two quantities.
func transitResult(args []string) (activityResult, error) {
	if len(args) != 3 {
		return activityResult{}, fmt.Errorf("%s takes two quantities: BUS_TRIPS RAIL_TRIPS per week", footprint.ActivityTransit)
	}
	bus, err := parseQuantity("weekly_bus_rides", args[1])
	if err != nil {
		return activityResult{}, err
	}
	rail, err := parseQuantity("weekly_rail_rides", args[2])
	if err != nil {
		return activityResult{}, err
	}
	return activityResult{
		Activity:       footprint.ActivityTransit,
		Group:          footprint.GroupTransportation,
		Quantity:       bus,
		SecondQuantity: rail,
		Unit:           "bus trips/week + rail trips/week",
		Tonnes:         footprint.FromTransit(bus, rail),
	}, nil
}

func activityCmd(opts *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activity NAME QUANTITY [RAIL_TRIPS]",
		Short: "Footprint of a single named activity",
		Long: "Footprint of a single named activity. The transit activity takes\n" +
			"weekly bus trips and weekly rail trips: fpcalc activity transit 10 2",
		Args:      cobra.RangeArgs(2, 3),
		ValidArgs: append(footprint.ActivityNames(), footprint.ActivityTransit),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res activityResult
			if args[0] == footprint.ActivityTransit {
				var err error
				if res, err = transitResult(args); err != nil {
					return err
				}
			} else {
				a, ok := footprint.LookupActivity(args[0])
				if !ok {
					return fmt.Errorf("unknown activity %q, expected one of %v", args[0],
						append(footprint.ActivityNames(), footprint.ActivityTransit))
				}
				if len(args) != 2 {
					return fmt.Errorf("%s takes a single quantity", a.Name)
				}
				q, err := parseQuantity(a.Name, args[1])
				if err != nil {
					return err
				}
				res = activityResult{Activity: a.Name, Group: a.Group, Quantity: q, Unit: a.Unit, Tonnes: a.Compute(q)}
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return writeLines(cmd.OutOrStdout(), []footprint.Line{{Group: res.Group, Activity: res.Activity, Tonnes: res.Tonnes}}, res.Tonnes, opts.precision)
		},
	}
}
