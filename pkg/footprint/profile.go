package footprint

import "fmt"

// Profile collects every activity quantity of one person.
type Profile struct {
	Computing      ComputingInput      `json:"computing" yaml:"computing"`
	Diet           DietInput           `json:"diet" yaml:"diet"`
	Transportation TransportationInput `json:"transportation" yaml:"transportation"`
	Travel         TravelInput         `json:"travel" yaml:"travel"`
}

// Report is the annual footprint of a Profile in tonnes CO2E.
type Report struct {
	Computing      float64 `json:"computing" yaml:"computing"`
	Diet           float64 `json:"diet" yaml:"diet"`
	Transportation float64 `json:"transportation" yaml:"transportation"`
	Travel         float64 `json:"travel" yaml:"travel"`
	Total          float64 `json:"total" yaml:"total"`
	Lines          []Line  `json:"lines" yaml:"lines"`
}

// Validate checks every group and prefixes errors with the group name.
func (p Profile) Validate() error {
	checks := []struct {
		group string
		err   error
	}{
		{GroupComputing, p.Computing.Validate()},
		{GroupDiet, p.Diet.Validate()},
		{GroupTransportation, p.Transportation.Validate()},
		{GroupTravel, p.Travel.Validate()},
	}
	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("%s: %w", c.group, c.err)
		}
	}
	return nil
}

// Report validates the profile and computes its footprint.
func (p Profile) Report() (Report, error) {
	if err := p.Validate(); err != nil {
		return Report{}, err
	}

	r := Report{
		Computing:      p.Computing.Footprint(),
		Diet:           p.Diet.Footprint(),
		Transportation: p.Transportation.Footprint(),
		Travel:         p.Travel.Footprint(),
	}
	r.Total = r.Computing + r.Diet + r.Transportation + r.Travel

	r.Lines = append(r.Lines, p.Computing.Breakdown()...)
	r.Lines = append(r.Lines, p.Diet.Breakdown()...)
	r.Lines = append(r.Lines, p.Transportation.Breakdown()...)
	r.Lines = append(r.Lines, p.Travel.Breakdown()...)

	return r, nil
}

// GroupTotal returns the total for a group name, or false for an unknown group.
func (r Report) GroupTotal(group string) (float64, bool) {
	switch group {
	case GroupComputing:
		return r.Computing, true
	case GroupDiet:
		return r.Diet, true
	case GroupTransportation:
		return r.Transportation, true
	case GroupTravel:
		return r.Travel, true
	}
	return 0, false
}
