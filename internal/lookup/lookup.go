// Package lookup resolves free-text addresses against Mapbox and joins the
// result onto the local suburb dataset. Addresses outside South Australia
// resolve to not-found rather than an error.
package lookup

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/model"
	"github.com/arbordata/saaddr/internal/population"
	"github.com/arbordata/saaddr/internal/retry"
	"github.com/arbordata/saaddr/pkg/geocode"
)

// ErrNotFound reports a query that resolved to nothing usable: no match, a
// non-SA location, or a suburb absent from the dataset.
var ErrNotFound = eris.New("lookup: address not found in South Australia")

// Match is one resolved address joined with its suburb record.
type Match struct {
	StreetAddress string  `json:"street_address"`
	FullAddress   string  `json:"full_address"`
	Suburb        string  `json:"suburb"`
	Postcode      string  `json:"postcode"`
	Council       string  `json:"council"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Tier          int     `json:"tier"`
	Remoteness    string  `json:"remoteness"`
	RegionType    string  `json:"region_type"`
}

// Placer is the forward-lookup surface of the Mapbox provider.
type Placer interface {
	Place(ctx context.Context, query string, limit int) ([]geocode.Feature, error)
}

// Service answers free-text address queries.
type Service struct {
	placer Placer
	pop    *population.Population
	retry  retry.Config
}

// Option configures a Service.
type Option func(*Service)

// WithRetry overrides the provider retry policy.
func WithRetry(cfg retry.Config) Option {
	return func(s *Service) {
		s.retry = cfg
	}
}

// New creates a lookup service over a Mapbox placer and a loaded population.
func New(placer Placer, pop *population.Population, opts ...Option) *Service {
	s := &Service{
		placer: placer,
		pop:    pop,
		retry: retry.Config{
			MaxAttempts:    3,
			InitialBackoff: 200 * time.Millisecond,
			ShouldRetry:    retry.Always,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup resolves one free-text address. Provider failures are retried;
// a clean no-match returns ErrNotFound.
func (s *Service) Lookup(ctx context.Context, query string) (*Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, eris.New("lookup: query is empty")
	}

	features, err := retry.Do(ctx, s.retry, "mapbox place", func(ctx context.Context) ([]geocode.Feature, error) {
		return s.placer.Place(ctx, query, 1)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: %q failed after %d attempts", query, s.retry.MaxAttempts)
	}
	if len(features) == 0 {
		return nil, ErrNotFound
	}

	f := features[0]
	if !inSouthAustraliaPlace(f.PlaceName) {
		return nil, ErrNotFound
	}

	suburb := extractSuburb(f)
	if suburb == "" {
		return nil, ErrNotFound
	}
	records := s.pop.FindByName(suburb)
	if len(records) == 0 {
		zap.L().Debug("suburb not in dataset", zap.String("suburb", suburb))
		return nil, ErrNotFound
	}
	rec := pickRecord(records, f.ContextValue("postcode"))

	match := &Match{
		StreetAddress: streetPart(f.PlaceName),
		FullAddress:   f.PlaceName,
		Suburb:        rec.Name,
		Postcode:      model.FormatPostcode(rec.Postcode),
		Council:       rec.Council,
		Tier:          rec.Tier,
		Remoteness:    string(rec.Remoteness),
		RegionType:    string(model.RegionTypeFor(rec.Remoteness)),
	}
	if len(f.Center) == 2 {
		match.Longitude = f.Center[0]
		match.Latitude = f.Center[1]
	}
	return match, nil
}

// inSouthAustraliaPlace checks the resolved place name for an SA marker.
func inSouthAustraliaPlace(placeName string) bool {
	return strings.Contains(placeName, "South Australia") ||
		strings.Contains(placeName, " SA ") ||
		strings.HasSuffix(placeName, " SA")
}

// extractSuburb pulls the locality from the feature context, preferring the
// Mapbox place entry and falling back to locality, then the feature text.
func extractSuburb(f geocode.Feature) string {
	if place := f.ContextValue("place"); place != "" {
		return place
	}
	if locality := f.ContextValue("locality"); locality != "" {
		return locality
	}
	return f.Text
}

// pickRecord prefers the record whose postcode matches the geocoded
// context; otherwise the first record wins.
func pickRecord(records []model.SuburbRecord, postcode string) model.SuburbRecord {
	if postcode != "" {
		for _, rec := range records {
			if model.FormatPostcode(rec.Postcode) == postcode {
				return rec
			}
		}
	}
	return records[0]
}

func streetPart(placeName string) string {
	if i := strings.Index(placeName, ","); i >= 0 {
		return strings.TrimSpace(placeName[:i])
	}
	return placeName
}
