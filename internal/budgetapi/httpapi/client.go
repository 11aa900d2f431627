// Package httpapi talks to a target budget server over its JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/budgetport/budgetport/internal/budgetapi"
)

// Config configures a Server.
type Config struct {
	URL   string
	Token string

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	Timeout    time.Duration
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("budget server returned %d: %s", e.StatusCode, e.Message)
}

// Server implements budgetapi.Server over HTTP.
type Server struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

var _ budgetapi.Server = (*Server)(nil)

// NewServer creates a Server for the API rooted at cfg.URL.
func NewServer(cfg Config) (*Server, error) {
	if cfg.URL == "" {
		return nil, errors.New("server URL is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Server{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
	}, nil
}

type budgetInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AmountPlaces int32  `json:"amount_places"`
}

type created struct {
	ID string `json:"id"`
}

// CreateBudget creates an empty budget and returns a client for it.
func (s *Server) CreateBudget(ctx context.Context, name string) (*Budget, error) {
	var info budgetInfo
	if err := s.do(ctx, http.MethodPost, "/budgets", map[string]string{"name": name}, &info); err != nil {
		return nil, fmt.Errorf("creating budget %q: %w", name, err)
	}
	return s.budget(info), nil
}

// DeleteBudget removes a budget.
func (s *Server) DeleteBudget(ctx context.Context, budgetID string) error {
	if err := s.do(ctx, http.MethodDelete, "/budgets/"+url.PathEscape(budgetID), nil, nil); err != nil {
		return fmt.Errorf("deleting budget %s: %w", budgetID, err)
	}
	return nil
}

// RunImport implements budgetapi.Server.
func (s *Server) RunImport(ctx context.Context, name string, fn func(ctx context.Context, c budgetapi.Client) error) error {
	b, err := s.CreateBudget(ctx, name)
	if err != nil {
		return err
	}
	if err := fn(ctx, b); err != nil {
		// The import context may already be cancelled.
		if delErr := s.DeleteBudget(context.WithoutCancel(ctx), b.id); delErr != nil {
			return errors.Join(err, delErr)
		}
		return err
	}
	return nil
}

// OpenBudget implements budgetapi.Server.
func (s *Server) OpenBudget(ctx context.Context, budgetID string) (budgetapi.Client, error) {
	var info budgetInfo
	if err := s.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(budgetID), nil, &info); err != nil {
		return nil, fmt.Errorf("opening budget %s: %w", budgetID, err)
	}
	return s.budget(info), nil
}

func (s *Server) budget(info budgetInfo) *Budget {
	places := info.AmountPlaces
	if places == 0 {
		places = 2
	}
	return &Budget{srv: s, id: info.ID, name: info.Name, places: places}
}

// do sends in as JSON and decodes the "data" member of the response into out.
func (s *Server) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("%s %s: response has no data", method, path)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding %s %s data: %w", method, path, err)
	}
	return nil
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		apiErr.Message = errResp.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
