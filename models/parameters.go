package models

import (
	"net/url"
	"strconv"
	"strings"

	"evah-sdk/validate"
)

// ParameterSet is the simulation input configuration
type ParameterSet struct {
	Lat          float64   `json:"lat" yaml:"lat"`
	Year         int       `json:"year" yaml:"year"`
	Month        int       `json:"month" yaml:"month"`
	SO2Mass      float64   `json:"so2_mass" yaml:"so2_mass"`
	SO2Height    float64   `json:"so2_height" yaml:"so2_height"`
	TropoHeight  float64   `json:"tropo_height" yaml:"tropo_height"`
	SO2Timescale float64   `json:"so2_timescale" yaml:"so2_timescale"`
	ScaleFactor  float64   `json:"scale_factor" yaml:"scale_factor"`
	Wavelengths  []float64 `json:"wavelengths,omitempty" yaml:"wavelengths,omitempty"`
	NetCDF       bool      `json:"nc,omitempty" yaml:"nc,omitempty"`
}

// DefaultWavelengths are the bands of the canonical variant, in nm
var DefaultWavelengths = []float64{380, 550, 1020}

// DefaultParameterSet returns the values the page is loaded with
func DefaultParameterSet() ParameterSet {
	return ParameterSet{
		Lat:          15.1,
		Year:         2021,
		Month:        1,
		SO2Mass:      18,
		SO2Height:    25,
		TropoHeight:  16,
		SO2Timescale: 8,
		ScaleFactor:  -24,
		Wavelengths:  append([]float64(nil), DefaultWavelengths...),
	}
}

// Clone returns a deep copy
func (p ParameterSet) Clone() ParameterSet {
	c := p
	c.Wavelengths = append([]float64(nil), p.Wavelengths...)
	return c
}

// Get returns the value of a scalar field by name
func (p ParameterSet) Get(field string) (float64, bool) {
	switch field {
	case validate.FieldLat:
		return p.Lat, true
	case validate.FieldYear:
		return float64(p.Year), true
	case validate.FieldMonth:
		return float64(p.Month), true
	case validate.FieldSO2Mass:
		return p.SO2Mass, true
	case validate.FieldSO2Height:
		return p.SO2Height, true
	case validate.FieldTropoHeight:
		return p.TropoHeight, true
	case validate.FieldTimescale:
		return p.SO2Timescale, true
	case validate.FieldScaleFactor:
		return p.ScaleFactor, true
	}
	return 0, false
}

// Set stores a scalar field by name. Integer fields are truncated.
func (p *ParameterSet) Set(field string, value float64) bool {
	switch field {
	case validate.FieldLat:
		p.Lat = value
	case validate.FieldYear:
		p.Year = int(value)
	case validate.FieldMonth:
		p.Month = int(value)
	case validate.FieldSO2Mass:
		p.SO2Mass = value
	case validate.FieldSO2Height:
		p.SO2Height = value
	case validate.FieldTropoHeight:
		p.TropoHeight = value
	case validate.FieldTimescale:
		p.SO2Timescale = value
	case validate.FieldScaleFactor:
		p.ScaleFactor = value
	default:
		return false
	}
	return true
}

// FormatWavelengths encodes the list the way the service parses it: "[380,550,1020]"
func FormatWavelengths(wls []float64) string {
	parts := make([]string, len(wls))
	for i, wl := range wls {
		parts[i] = validate.FormatNumber(wl)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Form serializes the set into flat form values for the given variant
func (p ParameterSet) Form(v Variant) url.Values {
	form := url.Values{}
	for _, f := range v.Fields() {
		value, _ := p.Get(f.Name)
		form.Set(v.RequestKey(f.Name), validate.FormatNumber(value))
	}
	if v.HasWavelengths() {
		form.Set(validate.FieldWavelengths, FormatWavelengths(p.Wavelengths))
		nc := "0"
		if p.NetCDF {
			nc = "1"
		}
		form.Set("nc", nc)
	}
	return form
}

// RawValues renders each scalar field as the text a user would type
func (p ParameterSet) RawValues() map[string]string {
	raw := make(map[string]string)
	for _, f := range validate.CanonicalFields() {
		value, _ := p.Get(f.Name)
		raw[f.Name] = validate.FormatNumber(value)
	}
	return raw
}

// RawWavelengths renders the wavelength list as individual entries
func (p ParameterSet) RawWavelengths() []string {
	raw := make([]string, len(p.Wavelengths))
	for i, wl := range p.Wavelengths {
		raw[i] = strconv.FormatFloat(wl, 'f', -1, 64)
	}
	return raw
}
