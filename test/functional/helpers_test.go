//go:build functional

// Package functional runs the items API end to end over real listeners.
package functional

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/items-api/internal/auth"
	"github.com/vyrodovalexey/items-api/internal/config"
	"github.com/vyrodovalexey/items-api/internal/server"
	"github.com/vyrodovalexey/items-api/internal/store"
)

// Default test configuration values.
const (
	DefaultTestHost        = "127.0.0.1"
	DefaultTestTimeout     = 30 * time.Second
	DefaultRequestTimeout  = 5 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// TestServer runs a real server backed by a data file in a temp directory.
type TestServer struct {
	Server   *server.Server
	DataFile string
	BaseURL  string
	Port     int

	t      *testing.T
	cancel context.CancelFunc
	done   chan error
}

// ServerOption adjusts the server config before the server is built.
type ServerOption func(cfg *config.Config)

// WithAPIKeys enables API key authentication.
func WithAPIKeys(keys string) ServerOption {
	return func(cfg *config.Config) {
		cfg.AuthMode = config.AuthModeAPIKey
		cfg.APIKeys = keys
	}
}

// WithBasicUsers enables basic authentication.
func WithBasicUsers(users string) ServerOption {
	return func(cfg *config.Config) {
		cfg.AuthMode = config.AuthModeBasic
		cfg.BasicAuthUsers = users
	}
}

// NewTestServer creates a test server. It is stopped when the test ends.
func NewTestServer(t *testing.T, opts ...ServerOption) *TestServer {
	t.Helper()

	port := freePort(t)
	dataFile := filepath.Join(t.TempDir(), "data.json")

	cfg := &config.Config{
		ServerPort:      port,
		LogLevel:        "error",
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  true,
		DataFile:        dataFile,
		StoreBackend:    config.StoreBackendFile,
		AuthMode:        config.AuthModeNone,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	authenticator, err := newAuthenticator(cfg)
	if err != nil {
		t.Fatalf("failed to create authenticator: %v", err)
	}

	ts := &TestServer{
		Server:   server.New(cfg, zap.NewNop(), store.NewFileStore(dataFile), authenticator),
		DataFile: dataFile,
		BaseURL:  fmt.Sprintf("http://%s:%d", DefaultTestHost, port),
		Port:     port,
		t:        t,
	}
	t.Cleanup(ts.Stop)

	return ts
}

func newAuthenticator(cfg *config.Config) (auth.Authenticator, error) {
	switch cfg.AuthMode {
	case config.AuthModeAPIKey:
		return auth.NewAPIKeyAuthenticator(cfg.APIKeys)
	case config.AuthModeBasic:
		return auth.NewBasicAuthenticator(cfg.BasicAuthUsers)
	default:
		return nil, nil
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", DefaultTestHost+":0")
	if err != nil {
		t.Fatalf("failed to find available port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	_ = listener.Close()
	return port
}

// Start starts the server and waits until /health answers.
func (ts *TestServer) Start() {
	ts.t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	ts.cancel = cancel
	ts.done = make(chan error, 1)

	go func() {
		ts.done <- ts.Server.Start(ctx)
	}()

	ts.waitForReady()
}

func (ts *TestServer) waitForReady() {
	ts.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTestTimeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ts.t.Fatalf("server did not become ready within timeout")
		case err := <-ts.done:
			ts.t.Fatalf("server exited during startup: %v", err)
		case <-ticker.C:
			resp, err := http.Get(ts.BaseURL + "/health")
			if err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return
				}
			}
		}
	}
}

// Stop cancels the server and waits for it to exit.
func (ts *TestServer) Stop() {
	if ts.cancel == nil {
		return
	}
	ts.cancel()
	ts.cancel = nil

	select {
	case err := <-ts.done:
		if err != nil {
			ts.t.Logf("server error: %v", err)
		}
	case <-time.After(DefaultTestTimeout):
		ts.t.Logf("server did not stop within timeout")
	}
}

// WriteData replaces the data file contents.
func (ts *TestServer) WriteData(content string) {
	ts.t.Helper()
	if err := os.WriteFile(ts.DataFile, []byte(content), 0o600); err != nil {
		ts.t.Fatalf("failed to write data file: %v", err)
	}
}

// ReadData returns the data file contents.
func (ts *TestServer) ReadData() string {
	ts.t.Helper()
	data, err := os.ReadFile(ts.DataFile)
	if err != nil {
		ts.t.Fatalf("failed to read data file: %v", err)
	}
	return string(data)
}

// HTTPClient provides a configured HTTP client for tests.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a new HTTP client for testing.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: DefaultRequestTimeout},
		baseURL: baseURL,
	}
}

// Request represents an HTTP request configuration.
type Request struct {
	Method  string
	Path    string
	Body    any
	Headers map[string]string
	Auth    func(r *http.Request)
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Do executes an HTTP request and returns the response.
func (c *HTTPClient) Do(ctx context.Context, req Request) (*Response, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		switch v := req.Body.(type) {
		case string:
			bodyReader = bytes.NewBufferString(v)
		default:
			jsonBody, err := json.Marshal(req.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			bodyReader = bytes.NewBuffer(jsonBody)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if req.Auth != nil {
		req.Auth(httpReq)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// MustDo executes a request and fails the test on transport errors.
func (c *HTTPClient) MustDo(t *testing.T, req Request) *Response {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultRequestTimeout)
	defer cancel()

	resp, err := c.Do(ctx, req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.Path, err)
	}
	return resp
}

// ItemResponse mirrors the item wire shape.
type ItemResponse struct {
	ID          int    `json:"id"`
	Units       int    `json:"units"`
	Description string `json:"description"`
}

// ErrorResponse mirrors the error wire shape.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// DecodeBody unmarshals a response body into v.
func DecodeBody(t *testing.T, resp *Response, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body, v); err != nil {
		t.Fatalf("failed to decode body %q: %v", resp.Body, err)
	}
}

// AssertStatusCode asserts that the response has the expected status code.
func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, expected, resp.Body)
	}
}

// AssertError asserts an error body with the given message and status.
func AssertError(t *testing.T, resp *Response, status int, message string) {
	t.Helper()
	AssertStatusCode(t, resp, status)

	var body ErrorResponse
	DecodeBody(t, resp, &body)
	if body.Status != status || body.Message != message {
		t.Errorf("error body = %+v, want {Message:%s Status:%d}", body, message, status)
	}
}

// LogTestStart logs the start of a test.
func LogTestStart(t *testing.T, testID, testName string) {
	t.Helper()
	t.Logf("Starting test %s: %s", testID, testName)
}

// LogTestEnd logs the end of a test.
func LogTestEnd(t *testing.T, testID string) {
	t.Helper()
	t.Logf("Completed test %s", testID)
}
