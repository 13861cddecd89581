package leads

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/leadflow/internal/cache"
	"github.com/dropDatabas3/leadflow/internal/domain/repository"
	dto "github.com/dropDatabas3/leadflow/internal/http/dto/leads"
	"github.com/dropDatabas3/leadflow/internal/observability/logger"
)

const listingCacheKey = "distributions:current"

// DistributionsService expone el lote vigente.
type DistributionsService interface {
	List(ctx context.Context) (*dto.ListDistributionsResponse, error)
	// Invalidate descarta el listado cacheado. Se llama después de cada upload.
	Invalidate(ctx context.Context) error
}

type distributionsService struct {
	repo  repository.DistributionRepository
	cache cache.Client
	ttl   time.Duration

	sf singleflight.Group
	// gen cambia en cada Invalidate; un fill iniciado antes no escribe en cache.
	gen atomic.Uint64
	// fillMu hace atómicos "comparar gen + Set" e "incrementar gen + Delete".
	fillMu sync.Mutex
}

// NewDistributionsService crea el service de listado.
func NewDistributionsService(d Deps) DistributionsService {
	return &distributionsService{
		repo:  d.Distributions,
		cache: d.Cache,
		ttl:   d.ListingTTL,
	}
}

const componentListing = "leads.listing"

func (s *distributionsService) List(ctx context.Context) (*dto.ListDistributionsResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentListing),
		logger.Op("List"),
	)

	if s.cache != nil {
		b, err := s.cache.Get(ctx, listingCacheKey)
		switch {
		case err == nil:
			var resp dto.ListDistributionsResponse
			if uerr := json.Unmarshal(b, &resp); uerr == nil {
				return &resp, nil
			}
			log.Warn("discarding corrupt listing cache entry")
		case !cache.IsNotFound(err):
			log.Warn("listing cache read failed", logger.Err(err))
		}
	}

	// Misses concurrentes comparten una sola lectura del store.
	v, err, _ := s.sf.Do(listingCacheKey, func() (any, error) {
		gen := s.gen.Load()
		resp, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.store(ctx, gen, resp, log)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.ListDistributionsResponse), nil
}

// store escribe el listado solo si no hubo Invalidate desde que empezó el fill.
func (s *distributionsService) store(ctx context.Context, gen uint64, resp *dto.ListDistributionsResponse, log *zap.Logger) {
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if s.gen.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, listingCacheKey, b, s.ttl); err != nil {
		log.Warn("listing cache write failed", logger.Err(err))
	}
}

func (s *distributionsService) load(ctx context.Context) (*dto.ListDistributionsResponse, error) {
	dists, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListDistributionsResponse{
		Distributions: make([]dto.DistributionView, 0, len(dists)),
	}
	for _, d := range dists {
		resp.Distributions = append(resp.Distributions, dto.FromDistribution(d, true))
	}
	return resp, nil
}

func (s *distributionsService) Invalidate(ctx context.Context) error {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.gen.Add(1)
	s.sf.Forget(listingCacheKey)
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, listingCacheKey)
}
