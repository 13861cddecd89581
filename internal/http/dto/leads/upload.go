// Package leads contiene DTOs para los endpoints de upload y distribución de leads.
package leads

import (
	"time"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// AgentView son los datos de display del agente en las respuestas.
type AgentView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile,omitempty"`
}

// DistributionView es una distribución tal como se devuelve por HTTP.
type DistributionView struct {
	Agent            AgentView         `json:"agent"`
	LeadsCount       int               `json:"leadsCount"`
	Leads            []repository.Lead `json:"leads"`
	DistributionDate *time.Time        `json:"distributionDate,omitempty"`
}

// UploadResponse es la respuesta de POST /api/upload.
type UploadResponse struct {
	Message       string             `json:"message"`
	TotalLeads    int                `json:"totalLeads"`
	RejectedRows  int                `json:"rejectedRows"`
	BatchID       string             `json:"batchId"`
	Distributions []DistributionView `json:"distributions"`
}

// ListDistributionsResponse es la respuesta de GET /api/upload/distributions.
type ListDistributionsResponse struct {
	Distributions []DistributionView `json:"distributions"`
}

// FromDistribution arma la vista de d. withDate agrega distributionDate (sólo en el listado).
func FromDistribution(d repository.Distribution, withDate bool) DistributionView {
	leads := d.Leads
	if leads == nil {
		leads = []repository.Lead{}
	}
	v := DistributionView{
		Agent: AgentView{
			ID:     d.Agent.ID,
			Name:   d.Agent.Name,
			Email:  d.Agent.Email,
			Mobile: d.Agent.Mobile,
		},
		LeadsCount: len(leads),
		Leads:      leads,
	}
	if withDate {
		at := d.CreatedAt
		v.DistributionDate = &at
	}
	return v
}
