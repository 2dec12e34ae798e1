// Package export re-packages a model result into downloadable files:
// CSV tables, a zip bundle of those tables, and the NetCDF attachment.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"evah-sdk/models"
)

// File names of the exported tables
const (
	TimeSeriesFilename = "model_time_series.csv"
	FairFilename       = "fair_time_series.csv"
)

// GridFilename is the name of the lat x time table of one wavelength
func GridFilename(wl int) string {
	return fmt.Sprintf("model_saod_%dnm.csv", wl)
}

// Table is one logical CSV table
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Tables derives every exported table from ds: the monthly time series,
// one grid table per wavelength with a grid, and the annual FaIR series.
func Tables(ds *models.ResultDataset) []Table {
	tables := []Table{timeSeriesTable(ds)}

	wls := make([]int, 0, len(ds.SAODGrids))
	for _, wl := range ds.Wavelengths {
		if _, ok := ds.SAODGrids[wl]; ok {
			wls = append(wls, wl)
		}
	}
	sort.Ints(wls)
	for _, wl := range wls {
		tables = append(tables, gridTable(ds, wl))
	}

	return append(tables, fairTable(ds))
}

func timeSeriesTable(ds *models.ResultDataset) Table {
	t := Table{Name: TimeSeriesFilename, Header: []string{"date"}}
	for _, wl := range ds.Wavelengths {
		t.Header = append(t.Header, fmt.Sprintf("saod_%dnm", wl))
	}
	t.Header = append(t.Header, "radiative_forcing")

	for i, date := range ds.TimeDates {
		row := []string{date}
		for _, series := range ds.SAODSeries {
			row = append(row, number(series[i]))
		}
		row = append(row, number(ds.RFSeries[i]))
		t.Rows = append(t.Rows, row)
	}
	return t
}

// gridTable lists latitude in the outer loop and time in the inner loop
func gridTable(ds *models.ResultDataset, wl int) Table {
	column := fmt.Sprintf("saod_%dnm", wl)
	t := Table{Name: GridFilename(wl), Header: []string{"date", "lat", column}}
	grid := ds.SAODGrids[wl]
	for i, lat := range ds.Lat {
		for j, date := range ds.TimeDates {
			t.Rows = append(t.Rows, []string{date, number(lat), number(grid[i][j])})
		}
	}
	return t
}

func fairTable(ds *models.ResultDataset) Table {
	t := Table{
		Name: FairFilename,
		Header: []string{
			"year",
			"radiative_forcing",
			"radiative_forcing_with_eruption",
			"temperature_anomaly",
			"temperature_anomaly_with_eruption",
		},
	}
	for i, year := range ds.FairYears {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(year),
			number(ds.FairRFWithout[i]),
			number(ds.FairRF[i]),
			number(ds.FairTempWithout[i]),
			number(ds.FairTemp[i]),
		})
	}
	return t
}

// CSV encodes the table with CRLF line endings
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(t.Header); err != nil {
		return nil, fmt.Errorf("failed to write header of %s: %w", t.Name, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("failed to write rows of %s: %w", t.Name, err)
	}
	return buf.Bytes(), nil
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
