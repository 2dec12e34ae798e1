// Package params holds the last-known-good simulation parameters and the
// per-field verdicts that decide whether a run may be submitted.
package params

import (
	"strconv"
	"sync"

	"evah-sdk/models"
	"evah-sdk/validate"
)

// Store is the parameter store of one client session.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	variant  models.Variant
	fields   []validate.Field
	values   models.ParameterSet
	verdicts map[string]validate.Verdict
	valid    bool
}

// New creates a store seeded with the default parameters, all fields valid
func New(variant models.Variant) *Store {
	s := &Store{
		variant:  variant,
		fields:   variant.Fields(),
		values:   models.DefaultParameterSet(),
		verdicts: make(map[string]validate.Verdict),
	}
	for _, f := range s.fields {
		v, _ := s.values.Get(f.Name)
		s.verdicts[f.Name] = validate.Pass(v)
	}
	if variant.HasWavelengths() {
		s.verdicts[validate.FieldWavelengths] = validate.Pass(0)
	}
	s.recompute()
	return s
}

// Variant returns the variant the store validates against
func (s *Store) Variant() models.Variant {
	return s.variant
}

// Fields returns the ordered field table
func (s *Store) Fields() []validate.Field {
	return append([]validate.Field(nil), s.fields...)
}

// Field looks up a field by name
func (s *Store) Field(name string) (validate.Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return validate.Field{}, false
}

// SetField validates raw for the named field. On success the parsed value
// replaces the stored one. Only the touched field is re-validated; global
// validity is recomputed from the latest verdict of every field.
func (s *Store) SetField(name, raw string) validate.Verdict {
	f, ok := s.Field(name)
	if !ok {
		return validate.Verdict{Kind: validate.KindNotNumeric, Message: "unknown field " + strconv.Quote(name)}
	}

	v := f.Check(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	if v.OK {
		s.values.Set(name, v.Value)
	}
	s.verdicts[name] = v
	s.recompute()
	return v
}

// SetWavelengths validates the entries in order, stopping at the first
// failure. The stored list is replaced only when every entry passes.
func (s *Store) SetWavelengths(raw []string) validate.Verdict {
	v, _ := validate.CheckWavelengths(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	if v.OK {
		wls := make([]float64, len(raw))
		for i, r := range raw {
			wls[i] = validate.CheckWavelength(r).Value
		}
		s.values.Wavelengths = wls
	}
	if s.variant.HasWavelengths() {
		s.verdicts[validate.FieldWavelengths] = v
		s.recompute()
	}
	return v
}

// SetNetCDF sets the additional binary product flag
func (s *Store) SetNetCDF(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.NetCDF = enabled
}

// Load routes every field of p through validation, as if typed by a user
func (s *Store) Load(p models.ParameterSet) bool {
	raw := p.RawValues()
	for _, f := range s.fields {
		s.SetField(f.Name, raw[f.Name])
	}
	if s.variant.HasWavelengths() {
		s.SetWavelengths(p.RawWavelengths())
	}
	s.SetNetCDF(p.NetCDF)
	return s.IsSubmittable()
}

// IsSubmittable reports whether every field's last verdict passed
func (s *Store) IsSubmittable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valid
}

// Verdict returns the latest verdict of a field
func (s *Store) Verdict(name string) (validate.Verdict, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verdicts[name]
	return v, ok
}

// Snapshot returns a copy of the last-known-good parameters
func (s *Store) Snapshot() models.ParameterSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// Invalid lists the names of fields whose last verdict failed, in table order
func (s *Store) Invalid() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for _, f := range s.fields {
		if !s.verdicts[f.Name].OK {
			names = append(names, f.Name)
		}
	}
	if v, ok := s.verdicts[validate.FieldWavelengths]; ok && !v.OK {
		names = append(names, validate.FieldWavelengths)
	}
	return names
}

// recompute must be called with mu held
func (s *Store) recompute() {
	valid := true
	for _, v := range s.verdicts {
		if !v.OK {
			valid = false
			break
		}
	}
	s.valid = valid
}
