package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(d time.Duration) zap.Field {
	return zap.Int64("duration_ms", d.Milliseconds())
}

// =================================================================================
// CAMPOS ESTÁNDAR - UPLOADS
// =================================================================================

// BatchID identifica el lote de distribuciones creado por un upload.
func BatchID(v string) zap.Field { return zap.String("batch_id", v) }

// AgentID identifica un agente del pool.
func AgentID(v string) zap.Field { return zap.String("agent_id", v) }

// FileName es el nombre original del archivo subido (no el temporal).
func FileName(v string) zap.Field { return zap.String("file_name", v) }

// Format es el formato detectado por extensión (csv, xlsx, xls).
func Format(v string) zap.Field { return zap.String("format", v) }

// Rejected cuenta filas descartadas por la normalización.
func Rejected(v int) zap.Field { return zap.Int("rejected", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Count(v int) zap.Field        { return zap.Int("count", v) }

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field { return zap.Any(key, v) }

// String crea un campo string genérico.
func String(key, v string) zap.Field { return zap.String(key, v) }
