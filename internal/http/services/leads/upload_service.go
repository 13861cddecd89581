package leads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/leadflow/internal/distribution"
	"github.com/dropDatabas3/leadflow/internal/domain/repository"
	dto "github.com/dropDatabas3/leadflow/internal/http/dto/leads"
	"github.com/dropDatabas3/leadflow/internal/ingest"
	"github.com/dropDatabas3/leadflow/internal/metrics"
	"github.com/dropDatabas3/leadflow/internal/observability/logger"
	"github.com/dropDatabas3/leadflow/internal/util"
	"github.com/dropDatabas3/leadflow/internal/util/spool"
)

const uploadSuccessMessage = "File uploaded and leads distributed successfully"

// UploadInput es el archivo recibido.
type UploadInput struct {
	FileName string    // nombre original, define el formato por extensión
	Body     io.Reader // contenido; se consume una sola vez
}

// UploadService procesa un upload completo: formato, parseo, chequeo de
// agentes, reparto y reemplazo del lote vigente.
type UploadService interface {
	Upload(ctx context.Context, in UploadInput) (*dto.UploadResponse, error)
}

// listingInvalidator lo implementa DistributionsService.
type listingInvalidator interface {
	Invalidate(ctx context.Context) error
}

type uploadService struct {
	agents   repository.AgentRepository
	dists    repository.DistributionRepository
	listing  listingInvalidator
	poolSize int
	tempDir  string
	now      func() time.Time
	newID    func() string

	// mu serializa reparto + ReplaceAll dentro del proceso.
	mu sync.Mutex
}

// NewUploadService crea el service de upload.
func NewUploadService(d Deps, listing listingInvalidator) UploadService {
	s := &uploadService{
		agents:   d.Agents,
		dists:    d.Distributions,
		listing:  listing,
		poolSize: d.AgentPoolSize,
		tempDir:  d.TempDir,
		now:      d.Now,
		newID:    d.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

const componentUpload = "leads.upload"

func (s *uploadService) Upload(ctx context.Context, in UploadInput) (resp *dto.UploadResponse, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentUpload),
		logger.Op("Upload"),
		logger.FileName(in.FileName),
	)

	start := time.Now()
	var total, rejected int
	defer func() {
		metrics.RecordUpload(resultLabel(err), total, rejected, time.Since(start))
	}()

	// Formato antes de tocar el disco.
	format, err := ingest.DetectFormat(in.FileName)
	if err != nil {
		log.Info("upload rejected", logger.Err(err))
		return nil, err
	}
	log = log.With(logger.Format(string(format)))

	// Solo el body del cliente es FILE_READ_ERROR; el disco es error nuestro.
	artifact, err := spool.Write(s.tempDir, in.FileName, in.Body)
	if err != nil {
		if errors.Is(err, spool.ErrSource) {
			return nil, fmt.Errorf("%w: %w", ingest.ErrRead, err)
		}
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	defer func() {
		if rerr := artifact.Remove(); rerr != nil {
			log.Warn("temp artifact not removed", logger.String("path", artifact.Path), logger.Err(rerr))
		}
	}()

	// Parseo
	res, err := s.parse(ctx, artifact, format)
	if err != nil {
		log.Info("parse failed", logger.Err(err))
		return nil, err
	}
	rejected = res.Rejected
	if len(res.Leads) == 0 {
		log.Info("no valid rows", logger.Rejected(rejected))
		return nil, ErrNoValidRows
	}

	// Pool de agentes completo
	agents, err := s.agents.List(ctx, s.poolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: list agents: %w", repository.ErrPersistence, err)
	}
	if len(agents) != s.poolSize {
		log.Info("insufficient agents", logger.Count(len(agents)))
		return nil, &InsufficientAgentsError{Have: len(agents), Need: s.poolSize}
	}

	batch, err := s.distributeAndPersist(ctx, res.Leads, agents)
	if err != nil {
		log.Error("persist failed", logger.Err(err))
		return nil, err
	}
	total = len(res.Leads)

	if err := s.listing.Invalidate(ctx); err != nil {
		log.Warn("listing cache not invalidated", logger.Err(err))
	}

	for _, d := range batch.Distributions {
		log.Debug("agent assigned",
			logger.AgentID(d.Agent.ID),
			logger.String("agent_email", util.MaskEmail(d.Agent.Email)),
			logger.Count(len(d.Leads)),
		)
	}
	log.Info("upload distributed",
		logger.BatchID(batch.ID),
		logger.Count(total),
		logger.Rejected(rejected),
	)

	out := &dto.UploadResponse{
		Message:       uploadSuccessMessage,
		TotalLeads:    total,
		RejectedRows:  rejected,
		BatchID:       batch.ID,
		Distributions: make([]dto.DistributionView, 0, len(batch.Distributions)),
	}
	for _, d := range batch.Distributions {
		out.Distributions = append(out.Distributions, dto.FromDistribution(d, false))
	}
	return out, nil
}

func (s *uploadService) parse(ctx context.Context, artifact *spool.File, format ingest.Format) (ingest.Result, error) {
	f, err := artifact.Open()
	if err != nil {
		return ingest.Result{}, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()
	return ingest.Ingest(ctx, f, format)
}

// distributeAndPersist arma el lote y reemplaza el vigente. Un upload a la vez.
func (s *uploadService) distributeAndPersist(ctx context.Context, leads []repository.Lead, agents []repository.AgentRef) (repository.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := repository.Batch{ID: s.newID(), CreatedAt: s.now().UTC()}
	dists, err := distribution.Distribute(leads, agents, batch.ID, batch.CreatedAt)
	if err != nil {
		return repository.Batch{}, err
	}
	batch.Distributions = dists

	if err := s.dists.ReplaceAll(ctx, batch); err != nil {
		if !errors.Is(err, repository.ErrPersistence) {
			err = fmt.Errorf("%w: %w", repository.ErrPersistence, err)
		}
		return repository.Batch{}, err
	}
	return batch, nil
}

func resultLabel(err error) string {
	var insufficient *InsufficientAgentsError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ingest.ErrUnsupportedFormat),
		errors.Is(err, ingest.ErrRead),
		errors.Is(err, ErrNoValidRows),
		errors.As(err, &insufficient):
		return metrics.ResultClientError
	default:
		return metrics.ResultServerError
	}
}
