package services

import (
	"context"
	"io"
	"net/http"
)

// ClientInterface defines the methods needed from the evah Client
type ClientInterface interface {
	NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error)
	Do(req *http.Request) (*http.Response, error)
	GetBaseURL() string
}
