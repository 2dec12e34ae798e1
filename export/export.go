package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"evah-sdk/models"
)

// Bundle and attachment file names
const (
	BundleFilename = "model_data.zip"
	NetCDFFilename = "model_data.nc"
)

// ErrNoBinary is returned when a result carries no NetCDF attachment
var ErrNoBinary = errors.New("result has no NetCDF attachment")

// Exporter writes the files of a result to a Sink. Canonical results are
// offered as separate CSV files, extended results as one zip bundle.
type Exporter struct {
	variant models.Variant
	sink    Sink
}

// New creates an Exporter for variant writing to sink
func New(variant models.Variant, sink Sink) *Exporter {
	return &Exporter{variant: variant, sink: sink}
}

// CSV exports the tables of ds and returns the names of the files written
func (e *Exporter) CSV(ds *models.ResultDataset) ([]string, error) {
	return ExportCSV(ds, e.variant, e.sink)
}

// Binary writes the NetCDF attachment of ds and returns its file name
func (e *Exporter) Binary(ds *models.ResultDataset) (string, error) {
	return ExportBinary(ds, e.sink)
}

// ExportCSV exports the tables of ds to sink
func ExportCSV(ds *models.ResultDataset, variant models.Variant, sink Sink) ([]string, error) {
	if ds == nil {
		return nil, fmt.Errorf("nil dataset")
	}
	tables := Tables(ds)

	if variant == models.Extended {
		data, err := Bundle(tables)
		if err != nil {
			return nil, err
		}
		if err := sink.WriteFile(BundleFilename, data); err != nil {
			return nil, err
		}
		return []string{BundleFilename}, nil
	}

	names := make([]string, 0, len(tables))
	for _, t := range tables {
		data, err := t.CSV()
		if err != nil {
			return names, err
		}
		if err := sink.WriteFile(t.Name, data); err != nil {
			return names, err
		}
		names = append(names, t.Name)
	}
	return names, nil
}

// Bundle zips the CSV encoding of tables, one entry per table
func Bundle(tables []Table) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, t := range tables {
		data, err := t.CSV()
		if err != nil {
			return nil, err
		}
		f, err := zw.Create(t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to bundle: %w", t.Name, err)
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("failed to add %s to bundle: %w", t.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportBinary decodes the base64 NetCDF attachment of ds into
// model_data.nc. The bytes are passed through unchanged.
func ExportBinary(ds *models.ResultDataset, sink Sink) (string, error) {
	if ds == nil || !ds.HasNetCDF() {
		return "", ErrNoBinary
	}
	data, err := base64.StdEncoding.DecodeString(ds.NetCDF)
	if err != nil {
		return "", fmt.Errorf("failed to decode NetCDF attachment: %w", err)
	}
	if err := sink.WriteFile(NetCDFFilename, data); err != nil {
		return "", err
	}
	return NetCDFFilename, nil
}
