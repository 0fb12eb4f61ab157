package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arbordata/saaddr/internal/retry"
)

const mapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// MapboxProvider implements Provider on the Mapbox Geocoding API, biased
// toward Australian results with an Adelaide proximity hint.
type MapboxProvider struct {
	token      string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// MapboxOption configures a MapboxProvider.
type MapboxOption func(*MapboxProvider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) MapboxOption {
	return func(p *MapboxProvider) {
		p.httpClient = hc
	}
}

// WithBaseURL overrides the Mapbox endpoint.
func WithBaseURL(base string) MapboxOption {
	return func(p *MapboxProvider) {
		p.baseURL = strings.TrimSuffix(base, "/")
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) MapboxOption {
	return func(p *MapboxProvider) {
		p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewMapbox creates a Mapbox provider with the given access token.
func NewMapbox(token string, opts ...MapboxOption) *MapboxProvider {
	p := &MapboxProvider{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    mapboxBaseURL,
		limiter:    rate.NewLimiter(10, 1), // Mapbox free tier: 600 req/min
	}
	for _, opt := range opts {
		opt(p)
	}
	if token != "" && !strings.HasPrefix(token, "pk.") && !strings.HasPrefix(token, "sk.") {
		zap.L().Warn("mapbox token does not look like a pk. or sk. token")
	}
	return p
}

// Name implements Provider.
func (p *MapboxProvider) Name() string { return "mapbox" }

// Available implements Provider. A provider without a token is never
// consulted.
func (p *MapboxProvider) Available(_ context.Context) bool { return p.token != "" }

// Geocode implements Provider. Results outside continental Australia are
// treated as no-match rather than trusted.
func (p *MapboxProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	features, err := p.forward(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, nil
	}

	f := features[0]
	if len(f.Center) != 2 {
		return nil, eris.Errorf("mapbox: malformed center for %q", query)
	}
	lng, lat := f.Center[0], f.Center[1]
	if !InAustralia(lat, lng) {
		zap.L().Warn("mapbox result outside Australia, discarding",
			zap.String("query", query),
			zap.Float64("lat", lat), zap.Float64("lng", lng))
		return nil, nil
	}

	return &Result{
		Latitude:  lat,
		Longitude: lng,
		PlaceName: f.PlaceName,
		Relevance: f.Relevance,
	}, nil
}

// Place is a richer forward lookup used by free-text address search. It
// returns up to limit matching features with their Mapbox context intact.
func (p *MapboxProvider) Place(ctx context.Context, query string, limit int) ([]Feature, error) {
	if limit < 1 {
		limit = 1
	}
	return p.forward(ctx, query, limit)
}

func (p *MapboxProvider) forward(ctx context.Context, query string, limit int) ([]Feature, error) {
	if p.token == "" {
		return nil, eris.New("mapbox: access token not configured")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "mapbox: rate limit wait")
	}

	params := url.Values{
		"access_token": {p.token},
		"limit":        {fmt.Sprintf("%d", limit)},
		"types":        {"place,locality,neighborhood,address"},
		"country":      {"AU"},
		"proximity":    {fmt.Sprintf("%.4f,%.4f", AdelaideLng, AdelaideLat)},
	}
	endpoint := fmt.Sprintf("%s/%s.json?%s", p.baseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "mapbox: create request")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "mapbox: request for %q", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := eris.Errorf("mapbox: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if retry.TransientStatus(resp.StatusCode) {
			return nil, retry.MarkTransient(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	var mr mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, eris.Wrap(err, "mapbox: decode response")
	}
	return mr.Features, nil
}

type mapboxResponse struct {
	Features []Feature `json:"features"`
}

// Feature is one Mapbox geocoding feature. Center is [lng, lat].
type Feature struct {
	Center    []float64        `json:"center"`
	PlaceName string           `json:"place_name"`
	Text      string           `json:"text"`
	Relevance float64          `json:"relevance"`
	Context   []FeatureContext `json:"context"`
}

// FeatureContext is one entry of a feature's containing hierarchy, such as
// the locality, postcode, and region the feature sits in.
type FeatureContext struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ContextValue returns the text of the first context entry whose ID carries
// the given prefix ("postcode", "locality", "region"), or "".
func (f Feature) ContextValue(prefix string) string {
	for _, c := range f.Context {
		if strings.HasPrefix(c.ID, prefix+".") {
			return c.Text
		}
	}
	return ""
}
