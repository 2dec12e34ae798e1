package models

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonicalData = `{
	"time_years": [2021.0, 2021.08, 2021.16],
	"time_dates": ["2021-01-01", "2021-02-01", "2021-03-01"],
	"lat": [-45, 45],
	"saod_380_ts": [0.1, 0.3, 0.2],
	"saod_550_ts": [0.05, 0.2, 0.1],
	"saod_1020_ts": [0.01, 0.02, 0.03],
	"saod_550": [[0.1, 0.2, 0.3], [0.0, 0.5, 0.4]],
	"rf_ts": [-2, -5, -1],
	"fair_years": [2020, 2021],
	"fair_rf": [-0.1, -0.2],
	"fair_rf_wo": [-0.1, -0.1],
	"fair_temp": [0.1, 0.3],
	"fair_temp_wo": [0.0, 0.35]
}`

const extendedData = `{
	"time_years": [2021.0, 2021.08],
	"time_dates": ["2021-01-01", "2021-02-01"],
	"lat": [0],
	"wavelengths": [500, 600],
	"saod_ts": [[0.1, 0.2], [0.3, 0.4]],
	"saod": [[[1, 2]], [[3, 4]]],
	"rf_ts": [-1, -2],
	"fair_years": [2021],
	"fair_rf": [-0.1],
	"fair_rf_wo": [-0.1],
	"fair_temp": [0.1],
	"fair_temp_wo": [0.0],
	"nc": "aGVsbG8="
}`

func TestResultDatasetCanonicalShape(t *testing.T) {
	var ds ResultDataset
	require.NoError(t, json.Unmarshal([]byte(canonicalData), &ds))
	require.NoError(t, ds.Validate())

	assert.Equal(t, []int{380, 550, 1020}, ds.Wavelengths)
	assert.Equal(t, []float64{0.1, 0.3, 0.2}, ds.SAODSeries[0])
	assert.Equal(t, []float64{0.01, 0.02, 0.03}, ds.SAODSeries[2])
	assert.Len(t, ds.SAODGrids, 1)
	assert.Equal(t, 1, ds.NearestWavelength(ReferenceWavelength))
	assert.False(t, ds.HasNetCDF())
}

func TestResultDatasetExtendedShape(t *testing.T) {
	var ds ResultDataset
	require.NoError(t, json.Unmarshal([]byte(extendedData), &ds))
	require.NoError(t, ds.Validate())

	assert.Equal(t, []int{500, 600}, ds.Wavelengths)
	assert.Equal(t, [][]float64{{3, 4}}, ds.SAODGrids[600])
	// 500 and 600 are equally far from 550: first wins
	assert.Equal(t, 0, ds.NearestWavelength(ReferenceWavelength))
	assert.True(t, ds.HasNetCDF())
}

func TestResultDatasetValidateRejectsMisalignment(t *testing.T) {
	var ds ResultDataset
	require.NoError(t, json.Unmarshal([]byte(canonicalData), &ds))

	ds.RFSeries = ds.RFSeries[:2]
	assert.ErrorContains(t, ds.Validate(), "rf_ts")

	var empty ResultDataset
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Error(t, empty.Validate())
}

func TestResultDatasetValidateRejectsGridWithoutLatitudes(t *testing.T) {
	var ds ResultDataset
	require.NoError(t, json.Unmarshal([]byte(canonicalData), &ds))

	ds.Lat = []float64{}
	ds.SAODGrids[550] = [][]float64{}
	assert.ErrorContains(t, ds.Validate(), "no latitudes")
}

func TestParameterSetForm(t *testing.T) {
	p := DefaultParameterSet()

	form := p.Form(Canonical)
	assert.Equal(t, "15.1", form.Get("lat"))
	assert.Equal(t, "2021", form.Get("year"))
	assert.Equal(t, "8", form.Get("so2_timescale"))
	assert.Equal(t, "-24", form.Get("scale_factor"))
	assert.False(t, form.Has("wavelengths"))
	assert.False(t, form.Has("nc"))

	p.NetCDF = true
	p.Wavelengths = []float64{380, 550, 1020.5}
	form = p.Form(Extended)
	assert.Equal(t, "8", form.Get("aerosol_timescale"))
	assert.Equal(t, "-24", form.Get("rad_eff"))
	assert.False(t, form.Has("so2_timescale"))
	assert.Equal(t, "[380,550,1020.5]", form.Get("wavelengths"))
	assert.Equal(t, "1", form.Get("nc"))
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("Extended")
	require.NoError(t, err)
	assert.Equal(t, Extended, v)

	v, err = ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, Canonical, v)

	_, err = ParseVariant("fancy")
	assert.Error(t, err)
}

func TestParamsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ParamsFilename)
	assert.False(t, ParamsFileExists(path))

	p := DefaultParameterSet()
	p.Lat = -8.3
	p.Year = 1815
	p.Month = 4
	p.Wavelengths = []float64{440, 870}
	require.NoError(t, SaveParamsFile(path, p))
	assert.True(t, ParamsFileExists(path))

	loaded, err := LoadParamsFile(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestCloneIsDeep(t *testing.T) {
	p := DefaultParameterSet()
	c := p.Clone()
	c.Wavelengths[0] = 1
	assert.Equal(t, 380.0, p.Wavelengths[0])
}
