// Package errors define el error estándar de la API HTTP y su catálogo.
//
// Los services retornan errores de dominio (sentinels de ingest, leads y
// repository); los controllers los traducen con FromError y los escriben con
// WriteError como {code, message, detail}.
package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la API.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Causa original, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// WithDetail devuelve una COPIA con detail seteado (no muta el catálogo).
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// CATÁLOGO
// =================================================================================

// ---------------------------------------------------------------------------------
// 400 Bad Request - Upload y validación
// ---------------------------------------------------------------------------------

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFile = &AppError{
		Code:       "MISSING_FILE",
		Message:    "Se requiere un archivo en el campo 'file'.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrUnsupportedFormat = &AppError{
		Code:       "UNSUPPORTED_FORMAT",
		Message:    "Formato de archivo no soportado. Use .csv, .xlsx o .xls.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrFileRead = &AppError{
		Code:       "FILE_READ_ERROR",
		Message:    "No se pudo leer el archivo subido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNoValidRows = &AppError{
		Code:       "NO_VALID_ROWS",
		Message:    "El archivo no contiene filas válidas (FirstName y Phone son obligatorios).",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInsufficientAgents = &AppError{
		Code:       "INSUFFICIENT_AGENTS",
		Message:    "No hay suficientes agentes para distribuir los leads.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// ---------------------------------------------------------------------------------
// 404 / 405
// ---------------------------------------------------------------------------------

var (
	ErrRouteNotFound = &AppError{
		Code:       "ROUTE_NOT_FOUND",
		Message:    "La ruta solicitada no existe.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// ---------------------------------------------------------------------------------
// 413 / 415 / 429
// ---------------------------------------------------------------------------------

var (
	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "El archivo excede el tamaño máximo permitido.",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}

	ErrUnsupportedMediaType = &AppError{
		Code:       "UNSUPPORTED_MEDIA_TYPE",
		Message:    "Tipo de contenido no permitido. Sólo CSV y Excel.",
		HTTPStatus: http.StatusUnsupportedMediaType,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Demasiadas solicitudes. Intente nuevamente más tarde.",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// ---------------------------------------------------------------------------------
// 5xx
// ---------------------------------------------------------------------------------

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error inesperado en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrPersistence = &AppError{
		Code:       "PERSISTENCE_ERROR",
		Message:    "No se pudo guardar la distribución.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
