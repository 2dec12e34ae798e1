package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// StatusOK is the application status code of a successful model run
const StatusOK = 0

// ReferenceWavelength is the band the contour plot and the forcing refer to, in nm
const ReferenceWavelength = 550

// ModelResponse is the envelope returned by POST /model
type ModelResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ResultDataset is the normalized model output, independent of variant
type ResultDataset struct {
	TimeDates   []string
	TimeYears   []float64
	Lat         []float64
	Wavelengths []int
	// SAODSeries holds one global mean series per entry of Wavelengths
	SAODSeries [][]float64
	// SAODGrids maps a wavelength to its latitude x time grid
	SAODGrids map[int][][]float64
	RFSeries  []float64

	FairYears       []int
	FairRF          []float64
	FairRFWithout   []float64
	FairTemp        []float64
	FairTempWithout []float64

	// NetCDF is the base64 encoded NetCDF product, empty unless requested
	NetCDF string
}

// wireData accepts both the fixed-name and the positional response shapes
type wireData struct {
	TimeYears   []float64 `json:"time_years"`
	TimeDates   []string  `json:"time_dates"`
	Lat         []float64 `json:"lat"`
	Wavelengths []int     `json:"wavelengths"`

	SAODTS [][]float64   `json:"saod_ts"`
	SAOD   [][][]float64 `json:"saod"`

	SAOD380TS  []float64   `json:"saod_380_ts"`
	SAOD550TS  []float64   `json:"saod_550_ts"`
	SAOD1020TS []float64   `json:"saod_1020_ts"`
	SAOD550    [][]float64 `json:"saod_550"`

	RFTS       []float64 `json:"rf_ts"`
	FairYears  []int     `json:"fair_years"`
	FairRFWO   []float64 `json:"fair_rf_wo"`
	FairRF     []float64 `json:"fair_rf"`
	FairTempWO []float64 `json:"fair_temp_wo"`
	FairTemp   []float64 `json:"fair_temp"`
	NC         string    `json:"nc"`
}

// UnmarshalJSON implements custom JSON decoding for ResultDataset
// This folds the fixed-name canonical fields into the positional layout
func (d *ResultDataset) UnmarshalJSON(b []byte) error {
	var w wireData
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*d = ResultDataset{
		TimeDates:       w.TimeDates,
		TimeYears:       w.TimeYears,
		Lat:             w.Lat,
		RFSeries:        w.RFTS,
		FairYears:       w.FairYears,
		FairRF:          w.FairRF,
		FairRFWithout:   w.FairRFWO,
		FairTemp:        w.FairTemp,
		FairTempWithout: w.FairTempWO,
		NetCDF:          w.NC,
		SAODGrids:       make(map[int][][]float64),
	}

	if len(w.Wavelengths) > 0 || len(w.SAODTS) > 0 {
		d.Wavelengths = w.Wavelengths
		d.SAODSeries = w.SAODTS
		for i, grid := range w.SAOD {
			if i < len(w.Wavelengths) {
				d.SAODGrids[w.Wavelengths[i]] = grid
			}
		}
		return nil
	}

	d.Wavelengths = []int{380, 550, 1020}
	d.SAODSeries = [][]float64{w.SAOD380TS, w.SAOD550TS, w.SAOD1020TS}
	if w.SAOD550 != nil {
		d.SAODGrids[550] = w.SAOD550
	}
	return nil
}

// Validate checks that every axis-aligned array has a consistent length
func (d *ResultDataset) Validate() error {
	n := len(d.TimeDates)
	if n == 0 {
		return fmt.Errorf("dataset has no time steps")
	}
	if len(d.TimeYears) != n {
		return fmt.Errorf("time_years has %d entries, want %d", len(d.TimeYears), n)
	}
	if len(d.Wavelengths) == 0 {
		return fmt.Errorf("dataset has no wavelengths")
	}
	if len(d.SAODSeries) != len(d.Wavelengths) {
		return fmt.Errorf("saod series count %d does not match %d wavelengths", len(d.SAODSeries), len(d.Wavelengths))
	}
	for i, s := range d.SAODSeries {
		if len(s) != n {
			return fmt.Errorf("saod series at %dnm has %d entries, want %d", d.Wavelengths[i], len(s), n)
		}
	}
	if len(d.RFSeries) != n {
		return fmt.Errorf("rf_ts has %d entries, want %d", len(d.RFSeries), n)
	}
	for wl, grid := range d.SAODGrids {
		if len(d.Lat) == 0 {
			return fmt.Errorf("saod grid at %dnm has no latitudes", wl)
		}
		if len(grid) != len(d.Lat) {
			return fmt.Errorf("saod grid at %dnm has %d rows, want %d latitudes", wl, len(grid), len(d.Lat))
		}
		for _, row := range grid {
			if len(row) != n {
				return fmt.Errorf("saod grid at %dnm has a row of %d entries, want %d", wl, len(row), n)
			}
		}
	}
	m := len(d.FairYears)
	for name, s := range map[string][]float64{
		"fair_rf": d.FairRF, "fair_rf_wo": d.FairRFWithout,
		"fair_temp": d.FairTemp, "fair_temp_wo": d.FairTempWithout,
	} {
		if len(s) != m {
			return fmt.Errorf("%s has %d entries, want %d", name, len(s), m)
		}
	}
	return nil
}

// NearestWavelength returns the index of the wavelength closest to ref that
// has a grid, or -1 when there is no grid at all. Ties go to the first.
func (d *ResultDataset) NearestWavelength(ref int) int {
	best := -1
	bestDist := math.Inf(1)
	for i, wl := range d.Wavelengths {
		if _, ok := d.SAODGrids[wl]; !ok {
			continue
		}
		dist := math.Abs(float64(wl - ref))
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// HasNetCDF reports whether a binary attachment was returned
func (d *ResultDataset) HasNetCDF() bool {
	return d.NetCDF != ""
}
