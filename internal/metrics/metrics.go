// Package metrics define las métricas Prometheus del servicio.
//
// Están en un paquete propio para que services y middlewares las usen sin
// depender entre sí. Register las publica en un registry; Handler expone /metrics.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados posibles de un upload (label "result").
const (
	ResultSuccess     = "success"
	ResultClientError = "client_error"
	ResultServerError = "server_error"
)

var (
	UploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leadflow_uploads_total",
		Help: "Uploads procesados por resultado",
	}, []string{"result"})

	LeadsIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leadflow_leads_ingested_total",
		Help: "Leads válidos distribuidos",
	})

	RowsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leadflow_rows_rejected_total",
		Help: "Filas descartadas por faltar FirstName o Phone",
	})

	UploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadflow_upload_duration_seconds",
		Help:    "Duración del pipeline de upload (parseo, reparto y persistencia)",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo por método y ruta",
	}, []string{"method", "path"})
)

// Register registra las métricas en reg (o el default si es nil), ignorando duplicados.
func Register(reg prometheus.Registerer, extra ...prometheus.Collector) error {
	collectors := []prometheus.Collector{
		UploadsTotal, LeadsIngested, RowsRejected, UploadDuration,
		HTTPRequestsTotal, HTTPRequestDuration, HTTPInflight,
	}
	for _, c := range append(collectors, extra...) {
		if err := registerCollector(reg, c); err != nil {
			return err
		}
	}
	return nil
}

// Handler expone el registry default.
func Handler() http.Handler { return promhttp.Handler() }

// RecordUpload registra un upload terminado.
func RecordUpload(result string, leads, rejected int, d time.Duration) {
	UploadsTotal.WithLabelValues(result).Inc()
	UploadDuration.Observe(d.Seconds())
	if leads > 0 {
		LeadsIngested.Add(float64(leads))
	}
	if rejected > 0 {
		RowsRejected.Add(float64(rejected))
	}
}

func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}
