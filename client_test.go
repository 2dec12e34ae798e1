package evah

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"evah-sdk/models"
	"evah-sdk/validate"
)

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.baseURL != DefaultBaseURL {
		t.Errorf("expected baseURL %s, got %s", DefaultBaseURL, client.baseURL)
	}

	if client.timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, client.timeout)
	}

	if client.httpClient == nil {
		t.Error("expected httpClient to be initialized")
	}

	if client.headers == nil {
		t.Error("expected headers map to be initialized")
	}

	if client.Model == nil {
		t.Error("expected Model service to be initialized")
	}

	if client.Variant() != models.Canonical {
		t.Errorf("expected canonical variant, got %s", client.Variant())
	}
}

func TestClientOptions(t *testing.T) {
	customURL := "http://model.example.com"
	customTimeout := 90 * time.Second

	client := NewClient(
		WithBaseURL(customURL),
		WithTimeout(customTimeout),
		WithHeader("X-Custom-Header", "value"),
		WithVariant(models.Extended),
	)

	if client.GetBaseURL() != customURL {
		t.Errorf("expected baseURL %s, got %s", customURL, client.GetBaseURL())
	}

	if client.GetTimeout() != customTimeout {
		t.Errorf("expected timeout %v, got %v", customTimeout, client.GetTimeout())
	}

	if client.httpClient.Timeout != customTimeout {
		t.Errorf("expected http client timeout %v, got %v", customTimeout, client.httpClient.Timeout)
	}

	if val, ok := client.headers["X-Custom-Header"]; !ok || val != "value" {
		t.Errorf("expected header X-Custom-Header with value 'value', got %v, %v", val, ok)
	}

	if client.Model.Variant() != models.Extended {
		t.Errorf("expected model service to use extended variant, got %s", client.Model.Variant())
	}
}

func TestWithHeaders(t *testing.T) {
	headers := map[string]string{
		"X-Header-1": "value1",
		"X-Header-2": "value2",
	}

	client := NewClient(WithHeaders(headers))

	for k, v := range headers {
		if val, ok := client.headers[k]; !ok || val != v {
			t.Errorf("expected header %s with value %s, got %v, %v", k, v, val, ok)
		}
	}
}

func TestNewRequest(t *testing.T) {
	client := NewClient(WithHeader("X-Custom-Header", "custom-value"))

	req, err := client.NewRequest(context.Background(), "POST", "/model", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if req.Method != "POST" {
		t.Errorf("expected method POST, got %s", req.Method)
	}

	expectedURL := "http://localhost:5000/model"
	if req.URL.String() != expectedURL {
		t.Errorf("expected URL %s, got %s", expectedURL, req.URL.String())
	}

	if req.Header.Get("Accept") != "application/json" {
		t.Errorf("expected Accept application/json, got %s", req.Header.Get("Accept"))
	}

	if req.Header.Get("X-Custom-Header") != "custom-value" {
		t.Errorf("expected X-Custom-Header custom-value, got %s", req.Header.Get("X-Custom-Header"))
	}
}

func TestDo_SingleAttemptOn5xx(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	req, _ := client.NewRequest(context.Background(), "POST", "/model", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", resp.StatusCode)
	}

	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(WithBaseURL(url))
	req, _ := client.NewRequest(context.Background(), "POST", "/model", nil)
	_, err := client.Do(req)

	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}

	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != 0 {
		t.Errorf("expected TransportError without status code, got %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		transport   bool
		application bool
	}{
		{"transport", &TransportError{StatusCode: 500}, true, false},
		{"decode", &DecodeError{Err: errors.New("bad json")}, true, false},
		{"application", &ApplicationError{Status: 1, Message: "x"}, false, true},
		{"wrapped application", errorsJoin(&ApplicationError{Status: 2}), false, true},
		{"other", errors.New("other"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsTransport(tt.err) != tt.transport {
				t.Errorf("expected IsTransport %v for %v", tt.transport, tt.err)
			}
			if IsApplication(tt.err) != tt.application {
				t.Errorf("expected IsApplication %v for %v", tt.application, tt.err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	v := validate.Check("Year", "1899.5", 1800, 2050, true)
	err := NewValidationError(validate.FieldYear, v)

	if err.Kind != validate.KindNotInteger {
		t.Errorf("expected NotInteger kind, got %s", err.Kind)
	}

	expected := "validation error on field 'year': Year value should be an integer."
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("submit failed"), err)
}
