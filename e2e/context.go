package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is used when BEAUTYLIST_E2E_URL is unset.
const DefaultBaseURL = "http://localhost:8080"

// TestContext holds the HTTP client and the last response of a scenario.
type TestContext struct {
	BaseURL string
	Client  *http.Client

	LastStatus  int
	LastBody    []byte
	LastHeaders http.Header

	saved map[string][]byte
}

// NewTestContext builds a context against the server under test.
func NewTestContext() *TestContext {
	base := os.Getenv("BEAUTYLIST_E2E_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return &TestContext{
		BaseURL: strings.TrimRight(base, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
		saved:   make(map[string][]byte),
	}
}

// Reachable reports whether the server answers its health check.
func (tc *TestContext) Reachable() bool {
	resp, err := tc.Client.Get(tc.BaseURL + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Do sends a request. A []byte or string body is sent as is, anything else
// is encoded as JSON.
func (tc *TestContext) Do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.LastStatus = resp.StatusCode
	tc.LastHeaders = resp.Header
	tc.LastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) GET(path string) error {
	return tc.Do(http.MethodGet, path, nil, nil)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.Do(http.MethodPost, path, body, nil)
}

// Status returns the status code of the last response.
func (tc *TestContext) Status() int {
	return tc.LastStatus
}

// Body returns the raw body of the last response.
func (tc *TestContext) Body() []byte {
	return tc.LastBody
}

// DecodeBody unmarshals the last response body into v.
func (tc *TestContext) DecodeBody(v any) error {
	if err := json.Unmarshal(tc.LastBody, v); err != nil {
		return fmt.Errorf("decode response %q: %w", string(tc.LastBody), err)
	}
	return nil
}

// Save keeps the last response body under name.
func (tc *TestContext) Save(name string) {
	tc.saved[name] = append([]byte(nil), tc.LastBody...)
}

// Saved returns a body kept with Save.
func (tc *TestContext) Saved(name string) ([]byte, bool) {
	b, ok := tc.saved[name]
	return b, ok
}

// Reset clears the server session and the saved documents.
func (tc *TestContext) Reset() error {
	tc.saved = make(map[string][]byte)
	if err := tc.POST("/import", "[]"); err != nil {
		return err
	}
	if err := tc.Do(http.MethodPut, "/catalog/query", map[string]string{"tab": "skincare", "search": "", "retailer": "All"}, nil); err != nil {
		return err
	}
	return tc.Do(http.MethodDelete, "/draft", nil, nil)
}
