package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

// errorResponse es el sobre de error: {success:false, error, code, detail}.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
}

// FromError convierte cualquier error en AppError.
// Los centinelas del repositorio se traducen; el resto es 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return MapServiceError(err)
}

// MapServiceError traduce los errores centinela de la capa de datos.
func MapServiceError(err error) *AppError {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, repository.ErrNotFound):
		return ErrNotFound.WithCause(err)
	case stderrors.Is(err, repository.ErrConflict):
		return ErrConflict.WithCause(err)
	case stderrors.Is(err, repository.ErrInvalidInput):
		return ErrBadRequest.WithCause(err)
	case stderrors.Is(err, repository.ErrForbidden):
		return ErrForbidden.WithCause(err)
	case stderrors.Is(err, repository.ErrInvalidTransition):
		return ErrInvalidTransition.WithCause(err)
	case stderrors.Is(err, repository.ErrNoDatabase):
		return ErrServiceUnavailable.WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return ErrServiceUnavailable.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}

// WriteError escribe el sobre de error. Los 5xx se loguean con la causa.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	resp := errorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteErrorCtx igual que WriteError pero loguea los 5xx con el logger del request.
func WriteErrorCtx(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(ctx).Error("request failed",
			logger.Status(appErr.HTTPStatus),
			logger.String("code", appErr.Code),
			logger.Err(appErr.Err))
	}
	WriteError(w, appErr)
}
