package validate

import (
	"fmt"
	"math"
	"strconv"
)

// Field names shared by the parameter store, the request encoder and the UIs
const (
	FieldSO2Mass     = "so2_mass"
	FieldLat         = "lat"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldSO2Height   = "so2_height"
	FieldTropoHeight = "tropo_height"
	FieldTimescale   = "so2_timescale"
	FieldScaleFactor = "scale_factor"
	FieldWavelengths = "wavelengths"
)

// Wavelength bounds in nm
const (
	WavelengthMin = 1
	WavelengthMax = 5000
)

// Field describes the bounds of one scalar parameter
type Field struct {
	Name    string
	Label   string
	Min     float64
	Max     float64
	Integer bool
	// AdvisoryAbove, when non-zero, produces a non-blocking warning for
	// values strictly greater than it.
	AdvisoryAbove float64
	Description   string
}

// Check runs the field's rules against raw
func (f Field) Check(raw string) Verdict {
	v := Check(f.Label, raw, f.Min, f.Max, f.Integer)
	if v.OK && f.AdvisoryAbove != 0 && v.Value > f.AdvisoryAbove {
		v.Advisory = true
		v.Message = fmt.Sprintf("%s value is larger than %s, results may be unreliable.", f.Label, FormatNumber(f.AdvisoryAbove))
	}
	return v
}

// CanonicalFields is the field table of the fixed three-wavelength variant
func CanonicalFields() []Field {
	return []Field{
		{Name: FieldSO2Mass, Label: "Mass of SO₂", Min: 0, Max: 50, Description: "Injected SO₂ mass in Tg (0-50)"},
		{Name: FieldLat, Label: "Latitude", Min: -90, Max: 90, Description: "Eruption latitude in degrees north (-90-90)"},
		{Name: FieldYear, Label: "Year", Min: 1800, Max: 2050, Integer: true, Description: "Eruption year (1800-2050)"},
		{Name: FieldMonth, Label: "Month", Min: 1, Max: 12, Integer: true, Description: "Eruption month (1-12)"},
		{Name: FieldSO2Height, Label: "SO₂ injection height", Min: 0, Max: 50, Description: "Injection height in km (0-50)"},
		{Name: FieldTropoHeight, Label: "Tropopause height", Min: 0, Max: 50, Description: "Tropopause height in km (0-50)"},
		{Name: FieldTimescale, Label: "SO₂ timescale", Min: 0.1, Max: 50, Description: "Sulfate production timescale in months (0.1-50)"},
		{Name: FieldScaleFactor, Label: "Scale factor", Min: -50, Max: -0.1, Description: "Radiative efficiency in W m⁻² per unit SAOD (-50 to -0.1)"},
	}
}

// ExtendedFields is the field table of the variable-wavelength variant. The
// SO₂ mass has no upper bound there, only an advisory above 20 Tg.
func ExtendedFields() []Field {
	fields := CanonicalFields()
	for i := range fields {
		if fields[i].Name == FieldSO2Mass {
			fields[i].Max = math.Inf(1)
			fields[i].AdvisoryAbove = 20
			fields[i].Description = "Injected SO₂ mass in Tg (warning above 20)"
		}
	}
	return fields
}

// CheckWavelength validates a single wavelength entry
func CheckWavelength(raw string) Verdict {
	return Check("Wavelength", raw, WavelengthMin, WavelengthMax, false)
}

// CheckWavelengths validates entries in order and stops at the first
// failure. The returned index is the failing position, or -1 when every
// entry passed. An empty list fails as Empty.
func CheckWavelengths(raw []string) (Verdict, int) {
	if len(raw) == 0 {
		return Verdict{Kind: KindEmpty, Message: "Wavelengths value is empty."}, 0
	}
	for i, r := range raw {
		v := CheckWavelength(r)
		if !v.OK {
			v.Message = "Wavelength " + strconv.Itoa(i+1) + ": " + v.Message
			return v, i
		}
	}
	return Pass(0), -1
}
