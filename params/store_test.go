package params

import (
	"sync"
	"testing"

	"evah-sdk/models"
	"evah-sdk/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreIsSubmittable(t *testing.T) {
	for _, variant := range []models.Variant{models.Canonical, models.Extended} {
		s := New(variant)
		assert.True(t, s.IsSubmittable(), variant.String())
		assert.Equal(t, models.DefaultParameterSet(), s.Snapshot())
		assert.Empty(t, s.Invalid())
	}
}

func TestSetFieldFlipsGlobalValidity(t *testing.T) {
	s := New(models.Canonical)

	v := s.SetField(validate.FieldLat, "91")
	assert.False(t, v.OK)
	assert.Equal(t, validate.KindAboveMax, v.Kind)
	assert.False(t, s.IsSubmittable())
	assert.Equal(t, []string{validate.FieldLat}, s.Invalid())
	// the last good value is retained
	assert.Equal(t, 15.1, s.Snapshot().Lat)

	v = s.SetField(validate.FieldYear, "1899.5")
	assert.Equal(t, validate.KindNotInteger, v.Kind)
	assert.False(t, s.IsSubmittable())

	s.SetField(validate.FieldLat, "-8.3")
	assert.False(t, s.IsSubmittable(), "year is still invalid")

	s.SetField(validate.FieldYear, "1815")
	assert.True(t, s.IsSubmittable())

	p := s.Snapshot()
	assert.Equal(t, -8.3, p.Lat)
	assert.Equal(t, 1815, p.Year)
}

func TestSetFieldUnknown(t *testing.T) {
	s := New(models.Canonical)
	v := s.SetField("colour", "1")
	assert.False(t, v.OK)
	assert.True(t, s.IsSubmittable(), "unknown fields do not affect validity")
}

func TestAdvisoryDoesNotBlock(t *testing.T) {
	s := New(models.Extended)
	v := s.SetField(validate.FieldSO2Mass, "120")
	assert.True(t, v.OK)
	assert.True(t, v.Advisory)
	assert.True(t, s.IsSubmittable())
	assert.Equal(t, 120.0, s.Snapshot().SO2Mass)

	c := New(models.Canonical)
	v = c.SetField(validate.FieldSO2Mass, "120")
	assert.False(t, v.OK)
	assert.False(t, c.IsSubmittable())
}

func TestSetWavelengthsFailFast(t *testing.T) {
	s := New(models.Extended)
	require.True(t, s.SetWavelengths([]string{"440", "870"}).OK)
	assert.Equal(t, []float64{440, 870}, s.Snapshot().Wavelengths)

	v := s.SetWavelengths([]string{"500", "9000", "600"})
	assert.False(t, v.OK)
	assert.Equal(t, validate.KindAboveMax, v.Kind)
	assert.Equal(t, []float64{440, 870}, s.Snapshot().Wavelengths, "list kept on failure")
	assert.False(t, s.IsSubmittable())

	require.True(t, s.SetWavelengths([]string{"550"}).OK)
	assert.True(t, s.IsSubmittable())

	assert.False(t, s.SetWavelengths(nil).OK)
	assert.False(t, s.IsSubmittable())
}

func TestLoadValidatesEveryField(t *testing.T) {
	s := New(models.Extended)
	p := models.DefaultParameterSet()
	p.Month = 13
	p.NetCDF = true
	assert.False(t, s.Load(p))
	assert.Equal(t, []string{validate.FieldMonth}, s.Invalid())
	assert.True(t, s.Snapshot().NetCDF)

	p.Month = 6
	assert.True(t, s.Load(p))
	assert.Equal(t, 6, s.Snapshot().Month)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := New(models.Extended)
	snap := s.Snapshot()
	snap.Wavelengths[0] = 1
	snap.Lat = 0
	assert.Equal(t, 380.0, s.Snapshot().Wavelengths[0])
	assert.Equal(t, 15.1, s.Snapshot().Lat)
}

func TestConcurrentAccess(t *testing.T) {
	s := New(models.Canonical)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetField(validate.FieldLat, "10")
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
			_ = s.IsSubmittable()
		}()
	}
	wg.Wait()
	assert.True(t, s.IsSubmittable())
}
