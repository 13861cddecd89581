package leads

import (
	"net/http"

	httperrors "github.com/dropDatabas3/leadflow/internal/http/errors"
	"github.com/dropDatabas3/leadflow/internal/http/helpers"
	svc "github.com/dropDatabas3/leadflow/internal/http/services/leads"
	"github.com/dropDatabas3/leadflow/internal/observability/logger"
)

// DistributionsController maneja GET /api/upload/distributions.
type DistributionsController struct {
	service svc.DistributionsService
}

func NewDistributionsController(service svc.DistributionsService) *DistributionsController {
	return &DistributionsController{service: service}
}

func (c *DistributionsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := c.service.List(ctx)
	if err != nil {
		logger.From(ctx).Error("list distributions failed",
			logger.Layer("controller"),
			logger.Op("DistributionsController.List"),
			logger.Err(err),
		)
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	helpers.NoStore(w)
	helpers.WriteJSON(w, http.StatusOK, resp)
}
