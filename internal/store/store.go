package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david/market-finder/internal/catalog"
	"github.com/david/market-finder/internal/ingest"
	"github.com/david/market-finder/internal/metrics"
	"github.com/david/market-finder/internal/models"
)

// ErrNotFound is returned when no market carries the requested id.
var ErrNotFound = errors.New("market not found")

// Snapshot is one immutable load of the market file. Every request works on
// its own snapshot; nothing is cached between calls.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Markets  []models.Market
	// Failure is the load failure kind, empty when the load succeeded.
	Failure string
}

type Store struct {
	path    string
	logger  *zap.Logger
	metrics *metrics.Registry
}

// New returns a store reading from path. logger and reg may be nil.
func New(path string, logger *zap.Logger, reg *metrics.Registry) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger, metrics: reg}
}

func (s *Store) Path() string { return s.path }

// Load reads, parses and normalizes the market file. A source that is
// missing, blank or malformed yields an empty snapshot; the failure is
// logged and counted but never returned.
func (s *Store) Load(ctx context.Context) *Snapshot {
	start := time.Now()
	snap := &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: start.UTC(),
		Markets:  []models.Market{},
	}

	raw, err := ingest.LoadFile(s.path)
	if err != nil {
		snap.Failure = ingest.FailureKind(err)
		s.logger.Error("market snapshot load failed, serving empty collection",
			zap.String("snapshot_id", snap.ID),
			zap.String("path", s.path),
			zap.String("kind", snap.Failure),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.LoadFailures.WithLabelValues(snap.Failure).Inc()
		}
	} else {
		snap.Markets = ingest.Normalize(raw)
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.SnapshotLoads.Inc()
		s.metrics.SnapshotSize.Set(float64(len(snap.Markets)))
		s.metrics.LoadDurationSec.Observe(elapsed.Seconds())
	}
	s.logger.Debug("market snapshot loaded",
		zap.String("snapshot_id", snap.ID),
		zap.Int("markets", len(snap.Markets)),
		zap.Duration("elapsed", elapsed),
	)
	return snap
}

type ListParams struct {
	Criteria catalog.Criteria
	Sort     string // "name", "state" or empty for source order
	Page     int
	Limit    int // <= 0 returns every match
}

type ListResult struct {
	catalog.Page
	SnapshotID string `json:"-"`
}

// ListMarkets filters, optionally sorts, then paginates one snapshot.
func (s *Store) ListMarkets(ctx context.Context, params ListParams) (*ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.Load(ctx)

	filtered := catalog.Filter(snap.Markets, params.Criteria)
	if params.Sort != "" {
		filtered = catalog.SortMarkets(filtered, params.Sort)
	}

	return &ListResult{
		Page:       catalog.Paginate(filtered, params.Page, params.Limit),
		SnapshotID: snap.ID,
	}, nil
}

// GetMarket returns the first market whose id equals id.
func (s *Store) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, ok := catalog.GetByID(s.Load(ctx).Markets, id)
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

// Markets returns every normalized market of a fresh snapshot.
func (s *Store) Markets(ctx context.Context) ([]models.Market, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Load(ctx).Markets, nil
}

type Facets struct {
	States   []string `json:"states"`
	Products []string `json:"products"`
}

func (s *Store) GetFacets(ctx context.Context) (*Facets, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	markets := s.Load(ctx).Markets
	return &Facets{
		States:   catalog.DistinctStates(markets),
		Products: catalog.DistinctProducts(markets),
	}, nil
}

// GetAggregations returns cross-faceted counts for the given criteria.
func (s *Store) GetAggregations(ctx context.Context, criteria catalog.Criteria) (*catalog.AggregationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := catalog.Aggregate(s.Load(ctx).Markets, criteria)
	return &res, nil
}

type Stats struct {
	Total       int                   `json:"total"`
	Located     int                   `json:"located"`
	States      int                   `json:"states"`
	Products    int                   `json:"products"`
	SNAP        int                   `json:"snap"`
	WIC         int                   `json:"wic"`
	ByState     []catalog.Aggregation `json:"by_state"`
	SnapshotID  string                `json:"snapshot_id"`
	LoadedAt    time.Time             `json:"loaded_at"`
	LoadFailure string                `json:"load_failure,omitempty"`
}

func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.Load(ctx)
	agg := catalog.Aggregate(snap.Markets, catalog.Criteria{})

	stats := &Stats{
		Total:       len(snap.Markets),
		States:      len(agg.States),
		Products:    len(agg.Products),
		ByState:     agg.States,
		SnapshotID:  snap.ID,
		LoadedAt:    snap.LoadedAt,
		LoadFailure: snap.Failure,
	}
	for i := range snap.Markets {
		m := &snap.Markets[i]
		if m.Location != nil {
			stats.Located++
		}
		if m.SNAP {
			stats.SNAP++
		}
		if m.WIC {
			stats.WIC++
		}
	}
	return stats, nil
}

type MapResult struct {
	Data  []catalog.Marker `json:"data"`
	Total int              `json:"total"`
	Shown int              `json:"shown"`
}

// MapMarkers returns markers for the located markets matching criteria,
// capped at limit.
func (s *Store) MapMarkers(ctx context.Context, criteria catalog.Criteria, limit int) (*MapResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filtered := catalog.Filter(s.Load(ctx).Markets, criteria)
	markers, total := catalog.Markers(filtered, limit)
	return &MapResult{Data: markers, Total: total, Shown: len(markers)}, nil
}
