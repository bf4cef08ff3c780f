package caspio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"volunteerhub/internal/domain"
	"volunteerhub/internal/infra"
)

// ErrMissingToken indicates the client was configured without credentials.
var ErrMissingToken = errors.New("caspio: bearer token is required")

// ErrMissingBaseURL indicates the client has no endpoint to talk to.
var ErrMissingBaseURL = errors.New("caspio: base url is required")

// Options configures the Caspio REST client.
type Options struct {
	BaseURL        string
	Token          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against a Caspio-style tabular records API.
// It exposes the four generic primitives the checklist engine builds on:
// filtered fetch, create, update and file attachment.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *infra.Logger
}

// Query describes one tabular fetch. Where is a SQL-ish predicate the
// upstream evaluates server side; Fields trims the response to the listed
// columns.
type Query struct {
	Where   string
	Fields  []string
	OrderBy string
	Limit   int
}

// File is one attachment payload for Attach.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// APIError carries the upstream failure detail for non-2xx responses.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("caspio: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("caspio: status %d", e.Status)
}

type listResponse struct {
	Result  []json.RawMessage `json:"Result"`
	Code    string            `json:"Code"`
	Message string            `json:"Message"`
}

type updateResponse struct {
	RecordsAffected int    `json:"RecordsAffected"`
	Code            string `json:"Code"`
	Message         string `json:"Message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, ErrMissingToken
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Fetch returns every row of table matching q. Rows come back raw so each
// caller can decode into its own record type; see FetchInto.
func (c *Client) Fetch(ctx context.Context, table string, q Query) ([]json.RawMessage, error) {
	params := url.Values{}
	if q.Where != "" {
		params.Set("q.where", q.Where)
	}
	if len(q.Fields) > 0 {
		params.Set("q.select", strings.Join(q.Fields, ","))
	}
	if q.OrderBy != "" {
		params.Set("q.orderby", q.OrderBy)
	}
	if q.Limit > 0 {
		params.Set("q.limit", fmt.Sprintf("%d", q.Limit))
	}
	endpoint := c.tableURL(table) + "/records"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var decoded listResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, "", &decoded); err != nil {
		return nil, err
	}
	c.logger.Debug().Str("table", table).Int("rows", len(decoded.Result)).Msg("caspio fetch")
	return decoded.Result, nil
}

// Create inserts rows into table and returns the created rows, identities
// included, in insertion order.
func (c *Client) Create(ctx context.Context, table string, rows any) ([]json.RawMessage, error) {
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("caspio: encode rows: %w", err)
	}
	endpoint := c.tableURL(table) + "/records?response=rows"
	var decoded listResponse
	if err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body), "application/json", &decoded); err != nil {
		return nil, err
	}
	c.logger.Debug().Str("table", table).Int("rows", len(decoded.Result)).Msg("caspio create")
	return decoded.Result, nil
}

// Update applies fields to every row of table matching where and returns the
// affected row count.
func (c *Client) Update(ctx context.Context, table string, where string, fields any) (int, error) {
	if strings.TrimSpace(where) == "" {
		return 0, fmt.Errorf("caspio: update requires a where predicate")
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("caspio: encode fields: %w", err)
	}
	params := url.Values{}
	params.Set("q.where", where)
	endpoint := c.tableURL(table) + "/records?" + params.Encode()
	var decoded updateResponse
	if err := c.do(ctx, http.MethodPut, endpoint, bytes.NewReader(body), "application/json", &decoded); err != nil {
		return 0, err
	}
	c.logger.Debug().Str("table", table).Int("affected", decoded.RecordsAffected).Msg("caspio update")
	return decoded.RecordsAffected, nil
}

// Attach uploads files into the named attachment field of one record.
func (c *Client) Attach(ctx context.Context, table string, recordID int64, field string, files []File) error {
	if len(files) == 0 {
		return fmt.Errorf("caspio: no files to attach")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile(field, f.Name)
		if err != nil {
			return fmt.Errorf("caspio: build multipart: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("caspio: write multipart: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("caspio: close multipart: %w", err)
	}
	endpoint := fmt.Sprintf("%s/attachments/%s/%d", c.tableURL(table), url.PathEscape(field), recordID)
	if err := c.do(ctx, http.MethodPut, endpoint, &buf, writer.FormDataContentType(), nil); err != nil {
		return err
	}
	c.logger.Debug().Str("table", table).Int64("record", recordID).Int("files", len(files)).Msg("caspio attach")
	return nil
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/tables/" + url.PathEscape(table)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("caspio: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrUpstreamFailure, err)
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var detail struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		}
		if err := json.Unmarshal(raw, &detail); err == nil {
			apiErr.Code = detail.Code
			apiErr.Message = detail.Message
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, apiErr)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamFailure, err)
	}
	return nil
}

// FetchInto fetches and decodes every matching row into T.
func FetchInto[T any](ctx context.Context, c *Client, table string, q Query) ([]T, error) {
	rows, err := c.Fetch(ctx, table, q)
	if err != nil {
		return nil, err
	}
	return DecodeRows[T](rows)
}

// DecodeRows decodes raw result rows into T, failing on the first bad row.
func DecodeRows[T any](rows []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		var rec T
		if err := json.Unmarshal(row, &rec); err != nil {
			return nil, fmt.Errorf("caspio: decode row %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
