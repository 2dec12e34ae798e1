// Package models provides the data structures exchanged with the EVA_H model
// service and persisted by the client.
//
// This file defines the two page variants. A variant fixes the field table,
// the request keys, and whether wavelengths and the NetCDF product are in play.
package models

import (
	"fmt"
	"strings"

	"evah-sdk/validate"
)

// Variant selects between the fixed-band and the flexible-wavelength client
type Variant int

const (
	// Canonical sends fixed 380/550/1020nm requests and exports separate CSV files
	Canonical Variant = iota
	// Extended sends a wavelength list, may request NetCDF and exports a zip
	Extended
)

func (v Variant) String() string {
	switch v {
	case Canonical:
		return "canonical"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant parses "canonical" or "extended" (case-insensitive, empty means canonical)
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "canonical":
		return Canonical, nil
	case "extended":
		return Extended, nil
	default:
		return Canonical, fmt.Errorf("unknown variant %q (want canonical or extended)", s)
	}
}

// Fields returns the scalar field table for the variant
func (v Variant) Fields() []validate.Field {
	if v == Extended {
		return validate.ExtendedFields()
	}
	return validate.CanonicalFields()
}

// HasWavelengths reports whether the wavelength list is user-editable and sent
func (v Variant) HasWavelengths() bool {
	return v == Extended
}

// RequestKey maps a field name to the form key the model service expects
func (v Variant) RequestKey(field string) string {
	if v != Extended {
		return field
	}
	switch field {
	case validate.FieldTimescale:
		return "aerosol_timescale"
	case validate.FieldScaleFactor:
		return "rad_eff"
	default:
		return field
	}
}
