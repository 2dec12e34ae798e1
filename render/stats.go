package render

import (
	"fmt"
	"math"
	"strconv"

	"evah-sdk/models"
)

// BandPeak is the maximum of one wavelength's global mean series
type BandPeak struct {
	Wavelength int
	Value      float64
	Index      int
	Month      string
}

// ForcingPeak is the minimum of the monthly forcing series
type ForcingPeak struct {
	Value float64
	Index int
	Month string
}

// TemperaturePeak is the year with the largest |with - without| difference
type TemperaturePeak struct {
	// Valid is false when there are fewer than two annual values
	Valid bool
	Index int
	Year  int
	// Difference is with - without, rounded to 6 decimals
	Difference float64
}

// Stats summarizes a model result
type Stats struct {
	Bands       []BandPeak
	Forcing     ForcingPeak
	Temperature TemperaturePeak
}

// Summarize computes the summary statistics of ds. Ties go to the first
// occurrence.
func Summarize(ds *models.ResultDataset) (Stats, error) {
	if ds == nil {
		return Stats{}, fmt.Errorf("nil dataset")
	}
	var s Stats
	for i, wl := range ds.Wavelengths {
		idx := argBest(ds.SAODSeries[i], func(a, b float64) bool { return a > b })
		if idx < 0 {
			return Stats{}, fmt.Errorf("saod series at %dnm is empty", wl)
		}
		s.Bands = append(s.Bands, BandPeak{
			Wavelength: wl,
			Value:      ds.SAODSeries[i][idx],
			Index:      idx,
			Month:      month(ds.TimeDates[idx]),
		})
	}

	idx := argBest(ds.RFSeries, func(a, b float64) bool { return a < b })
	if idx < 0 {
		return Stats{}, fmt.Errorf("forcing series is empty")
	}
	s.Forcing = ForcingPeak{Value: ds.RFSeries[idx], Index: idx, Month: month(ds.TimeDates[idx])}

	s.Temperature = temperaturePeak(ds.FairTemp, ds.FairTempWithout, ds.FairYears)
	return s, nil
}

// argBest returns the index of the first element no other element beats
func argBest(values []float64, better func(a, b float64) bool) int {
	best := -1
	for i, v := range values {
		if best < 0 || better(v, values[best]) {
			best = i
		}
	}
	return best
}

// temperaturePeak scans from the second year on; the first year is the
// pre-eruption baseline.
func temperaturePeak(with, without []float64, years []int) TemperaturePeak {
	peak := TemperaturePeak{}
	maxDiff := math.Inf(-1)
	for i := 1; i < len(with) && i < len(without); i++ {
		d := math.Abs(without[i] - with[i])
		if d > maxDiff {
			maxDiff = d
			peak = TemperaturePeak{Valid: true, Index: i, Difference: round6(with[i] - without[i])}
			if i < len(years) {
				peak.Year = years[i]
			}
		}
	}
	return peak
}

func round6(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 6, 64), 64)
	return r
}

func month(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// Line is one labelled entry of the stats panel
type Line struct {
	Label string
	Value string
}

// Lines renders the stats the way the results panel shows them
func (s Stats) Lines() []Line {
	var lines []Line
	for _, b := range s.Bands {
		lines = append(lines, Line{
			Label: fmt.Sprintf("Peak monthly SAOD at %dnm:", b.Wavelength),
			Value: fmt.Sprintf("%s (%s)", formatValue(b.Value), b.Month),
		})
	}
	lines = append(lines, Line{
		Label: "Peak monthly radiative forcing:",
		Value: fmt.Sprintf("%s W m⁻² (%s)", formatValue(s.Forcing.Value), s.Forcing.Month),
	})
	if s.Temperature.Valid {
		lines = append(lines, Line{
			Label: "Peak annual temperature anomaly:",
			Value: fmt.Sprintf("%s K (%d)", strconv.FormatFloat(s.Temperature.Difference, 'f', 6, 64), s.Temperature.Year),
		})
	}
	return lines
}
