package hindsight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 30 * time.Second
	apiPrefix       = "/v1/default/banks"
	maxErrorBodyLen = 512
)

// Config describes how to reach the memory service.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("hindsight API error: %s %s: %s", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("hindsight API error: %s %s: %s (%s)", e.Method, e.Path, e.Status, e.Body)
}

// IsNotFound reports whether err is an APIError with status 404.
// The explorer itself does not branch on it; it is for other callers of Client.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the memory service over HTTP/JSON.
type Client struct {
	base   *url.URL
	apiKey string
	client *http.Client
	log    *zap.Logger
}

// New validates cfg and returns a ready client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("hindsight: base URL is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("hindsight: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("hindsight: unsupported URL scheme %q", base.Scheme)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   base,
		apiKey: cfg.APIKey,
		client: httpClient,
		log:    logger.Named("hindsight"),
	}, nil
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListBanks returns every bank known to the service.
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	var out struct {
		Banks []Bank `json:"banks"`
	}
	if err := c.do(ctx, http.MethodGet, apiPrefix, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	return out.Banks, nil
}

// GetProfile returns the name, background and disposition of a bank.
func (c *Client) GetProfile(ctx context.Context, bankID string) (Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, bankPath(bankID, "profile"), nil, nil, &out); err != nil {
		return Profile{}, fmt.Errorf("get profile %s: %w", bankID, err)
	}
	return out, nil
}

// GetStats returns memory, link and operation counters for a bank.
func (c *Client) GetStats(ctx context.Context, bankID string) (Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, bankPath(bankID, "stats"), nil, nil, &out); err != nil {
		return Stats{}, fmt.Errorf("get stats %s: %w", bankID, err)
	}
	return out, nil
}

// UpdateBankName renames a bank and returns its updated profile.
// The explorer is read-only and never calls it.
func (c *Client) UpdateBankName(ctx context.Context, bankID, name string) (Profile, error) {
	body := map[string]string{"name": name}
	var out Profile
	if err := c.do(ctx, http.MethodPut, bankPath(bankID), nil, body, &out); err != nil {
		return Profile{}, fmt.Errorf("update bank name %s: %w", bankID, err)
	}
	return out, nil
}

// AddBackground merges text into the bank background. When mergePersonality is
// set the service re-infers the disposition from the merged background.
// The explorer is read-only and never calls it.
func (c *Client) AddBackground(ctx context.Context, bankID, text string, mergePersonality bool) (Profile, error) {
	body := struct {
		Content           string `json:"content"`
		UpdatePersonality bool   `json:"update_personality"`
	}{Content: text, UpdatePersonality: mergePersonality}
	var out struct {
		Background  string       `json:"background"`
		Disposition *Disposition `json:"personality"`
	}
	if err := c.do(ctx, http.MethodPost, bankPath(bankID, "background"), nil, body, &out); err != nil {
		return Profile{}, fmt.Errorf("add background %s: %w", bankID, err)
	}
	profile, err := c.GetProfile(ctx, bankID)
	if err != nil {
		return Profile{}, err
	}
	profile.Background = out.Background
	if out.Disposition != nil {
		profile.Disposition = *out.Disposition
	}
	return profile, nil
}

// ListMemories pages through the memory units of a bank, most recent first.
func (c *Client) ListMemories(ctx context.Context, bankID string, opts ListOptions) ([]Memory, error) {
	query := pageQuery(opts)
	if opts.Type != "" {
		query.Set("type", opts.Type)
	}
	var out struct {
		Items []Memory `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, bankPath(bankID, "memories", "list"), query, nil, &out); err != nil {
		return nil, fmt.Errorf("list memories %s: %w", bankID, err)
	}
	return out.Items, nil
}

// ListEntities returns up to limit entities, ordered by mention count.
func (c *Client) ListEntities(ctx context.Context, bankID string, limit int) ([]Entity, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Items []Entity `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, bankPath(bankID, "entities"), query, nil, &out); err != nil {
		return nil, fmt.Errorf("list entities %s: %w", bankID, err)
	}
	return out.Items, nil
}

// ListDocuments pages through the source documents of a bank.
func (c *Client) ListDocuments(ctx context.Context, bankID string, opts ListOptions) ([]Document, error) {
	var out struct {
		Items []Document `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, bankPath(bankID, "documents"), pageQuery(opts), nil, &out); err != nil {
		return nil, fmt.Errorf("list documents %s: %w", bankID, err)
	}
	return out.Items, nil
}

// Recall searches the bank for memories relevant to req.Query.
func (c *Client) Recall(ctx context.Context, bankID string, req RecallRequest) (RecallResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return RecallResponse{}, errors.New("recall: query cannot be empty")
	}
	var out RecallResponse
	if err := c.do(ctx, http.MethodPost, bankPath(bankID, "memories", "recall"), nil, req, &out); err != nil {
		return RecallResponse{}, fmt.Errorf("recall %s: %w", bankID, err)
	}
	return out, nil
}

// Reflect asks the bank to synthesize an answer grounded in its memories.
func (c *Client) Reflect(ctx context.Context, bankID string, req ReflectRequest) (ReflectResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return ReflectResponse{}, errors.New("reflect: query cannot be empty")
	}
	var out ReflectResponse
	if err := c.do(ctx, http.MethodPost, bankPath(bankID, "reflect"), nil, req, &out); err != nil {
		return ReflectResponse{}, fmt.Errorf("reflect %s: %w", bankID, err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.base.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)))

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func bankPath(bankID string, segments ...string) string {
	parts := append([]string{apiPrefix, url.PathEscape(bankID)}, segments...)
	return strings.Join(parts, "/")
}

func pageQuery(opts ListOptions) url.Values {
	query := url.Values{}
	if opts.Query != "" {
		query.Set("q", opts.Query)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset >= 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	return query
}
