package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParamsFilename is the default parameters file in the working directory
const ParamsFilename = "evah-params.yml"

// ParamsFileExists checks if the parameters file exists at path
func ParamsFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadParamsFile loads and parses a parameters file. Fields missing from the
// file keep their default values.
func LoadParamsFile(path string) (ParameterSet, error) {
	params := DefaultParameterSet()

	data, err := os.ReadFile(path)
	if err != nil {
		return params, err
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return params, nil
}

// SaveParamsFile writes the parameter set to path
func SaveParamsFile(path string, params ParameterSet) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
