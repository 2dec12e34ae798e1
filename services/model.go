// Package services provides the model service for EVA_H API operations.
//
// This file implements the ModelService which serializes a parameter set into
// a form-encoded POST to /model, and classifies the outcome as a transport
// failure, an application failure or a decoded result dataset.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"evah-sdk/models"
)

// ModelPath is the endpoint that runs the model
const ModelPath = "/model"

// RequestIDHeader correlates a submission with server logs and run history
const RequestIDHeader = "X-Request-ID"

type ModelService struct {
	client  ClientInterface
	variant models.Variant
}

func NewModelService(client ClientInterface, variant models.Variant) *ModelService {
	return &ModelService{
		client:  client,
		variant: variant,
	}
}

// Variant returns the variant requests are encoded for
func (s *ModelService) Variant() models.Variant {
	return s.variant
}

// RunResult carries the decoded envelope of a successful run
type RunResult struct {
	Message string
	Dataset *models.ResultDataset
}

// Run submits params and returns the decoded dataset. It issues exactly one
// request. requestID may be empty.
func (s *ModelService) Run(ctx context.Context, params models.ParameterSet, requestID string) (*RunResult, error) {
	form := params.Form(s.variant)

	req, err := s.client.NewRequest(ctx, "POST", ModelPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", truncate(string(bodyBytes), 200))}
	}

	var envelope models.ModelResponse
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if envelope.Status != models.StatusOK {
		return nil, &ApplicationError{Status: envelope.Status, Message: envelope.Message}
	}

	var ds models.ResultDataset
	if err := json.Unmarshal(envelope.Data, &ds); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := ds.Validate(); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &RunResult{Message: envelope.Message, Dataset: &ds}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
