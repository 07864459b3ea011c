package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"gstrate/internal/domain"
)

const (
	// StyleQuery sends the HSN code as a query parameter.
	StyleQuery = "query"
	// StylePath appends the HSN code as the last path segment.
	StylePath = "path"

	defaultTimeout    = 5 * time.Second
	defaultQueryParam = "hsn"
	maxResponseBytes  = 64 << 10
)

// rateKeys are the response fields a provider may carry the rate under, in
// order of preference.
var rateKeys = []string{"rate", "gst_rate", "gstRate", "igst_rate", "tax_rate", "gst"}

var descriptionKeys = []string{"description", "desc"}

// Options configures an HTTPProvider.
type Options struct {
	Name       string
	BaseURL    string
	Style      string
	QueryParam string
	APIKey     string
	Timeout    time.Duration
	// Limiter, when set, bounds the outbound request rate. An exhausted
	// limiter fails the call immediately with ErrThrottled.
	Limiter *rate.Limiter
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
	// Now stamps ResolvedAt on returned entries. Defaults to time.Now.
	Now func() time.Time
}

// HTTPProvider implements port.RateProvider against a JSON tax-rate API.
type HTTPProvider struct {
	name       string
	baseURL    string
	style      string
	queryParam string
	apiKey     string
	limiter    *rate.Limiter
	client     *http.Client
	now        func() time.Time
}

// NewHTTPProvider creates an HTTPProvider.
func NewHTTPProvider(opts Options) *HTTPProvider {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	style := opts.Style
	if style == "" {
		style = StyleQuery
	}
	param := opts.QueryParam
	if param == "" {
		param = defaultQueryParam
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HTTPProvider{
		name:       opts.Name,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		style:      style,
		queryParam: param,
		apiKey:     opts.APIKey,
		limiter:    opts.Limiter,
		client:     client,
		now:        now,
	}
}

// Name returns the provider name used in logs and rate sources.
func (p *HTTPProvider) Name() string {
	return p.name
}

// FetchRate looks up hsn with a single GET request. Any transport failure,
// non-2xx status or payload without a usable rate is returned as an error.
func (p *HTTPProvider) FetchRate(ctx context.Context, hsn string) (*domain.HSNRateEntry, error) {
	if p.limiter != nil && !p.limiter.Allow() {
		return nil, fmt.Errorf("%s: %w", p.name, ErrThrottled)
	}

	endpoint, err := p.endpoint(hsn)
	if err != nil {
		return nil, fmt.Errorf("%s: building request url: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", p.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", p.name, ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: reading response: %v", p.name, ErrUnavailable, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, NewRateLimitError(p.name, fmt.Errorf("%w: status 429", ErrUnavailable), retryAfter)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: status %d", p.name, ErrUnavailable, resp.StatusCode)
	}

	rateVal, desc, err := parseRatePayload(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}

	return &domain.HSNRateEntry{
		HSN:         hsn,
		Rate:        rateVal,
		Description: desc,
		Source:      domain.ProviderSource(p.name),
		ResolvedAt:  p.now(),
	}, nil
}

func (p *HTTPProvider) endpoint(hsn string) (string, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return "", err
	}
	if p.style == StylePath {
		return u.JoinPath(hsn).String(), nil
	}
	q := u.Query()
	q.Set(p.queryParam, hsn)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// parseRatePayload extracts the rate and optional description from a JSON
// object, looking at the top level first and then under "data".
func parseRatePayload(body []byte) (float64, string, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	candidates := []map[string]interface{}{payload}
	if data, ok := payload["data"].(map[string]interface{}); ok {
		candidates = append(candidates, data)
	}

	for _, obj := range candidates {
		for _, key := range rateKeys {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			r, ok := toRate(raw)
			if !ok {
				return 0, "", fmt.Errorf("%w: field %q is not a valid rate", ErrMalformedResponse, key)
			}
			return r, descriptionOf(obj), nil
		}
	}
	return 0, "", fmt.Errorf("%w: no rate field", ErrMalformedResponse)
}

func toRate(raw interface{}) (float64, bool) {
	var r float64
	switch v := raw.(type) {
	case float64:
		r = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
		if err != nil {
			return 0, false
		}
		r = parsed
	default:
		return 0, false
	}
	if r < 0 || r > 100 {
		return 0, false
	}
	return r, true
}

func descriptionOf(obj map[string]interface{}) string {
	for _, key := range descriptionKeys {
		if s, ok := obj[key].(string); ok {
			return s
		}
	}
	return ""
}
