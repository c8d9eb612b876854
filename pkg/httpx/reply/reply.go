package reply

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"bikeship/pkg/contextx"
	"bikeship/pkg/errcodes"
	"bikeship/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// coded is implemented by application errors that carry a stable code.
type coded interface {
	ErrorCode() failure.ErrorCode
	Description() string
}

//nolint:gochecknoglobals
var statusByCode = map[failure.ErrorCode]int{
	errcodes.ValidationError:      http.StatusBadRequest,
	errcodes.InvalidPaging:        http.StatusBadRequest,
	errcodes.NoEligibleQuotes:     http.StatusBadRequest,
	errcodes.InvalidPrice:         http.StatusBadRequest,
	errcodes.InvalidPortal:        http.StatusBadRequest,
	errcodes.InvalidCarrier:       http.StatusBadRequest,
	errcodes.InvalidQuoteID:       http.StatusBadRequest,
	errcodes.InconsistentDecision: http.StatusBadRequest,
	errcodes.InvalidShipmentID:    http.StatusBadRequest,
	errcodes.InvalidStatus:        http.StatusBadRequest,
	errcodes.NotFound:             http.StatusNotFound,
	errcodes.ShipmentNotFound:     http.StatusNotFound,
	errcodes.BackendUnavailable:   http.StatusServiceUnavailable,
	errcodes.TimeoutExceeded:      http.StatusServiceUnavailable,
	errcodes.PersistenceFailure:   http.StatusInternalServerError,
	errcodes.InternalServerError:  http.StatusInternalServerError,
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// Binary writes a downloadable document.
func Binary(ctx context.Context, w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		logger(ctx).Error("w.Write", logx.Error(err))
	}
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	status, response := render(err)
	response.SupportID = supportID(ctx)

	if status >= http.StatusInternalServerError {
		logger(ctx).Error("request failed", slog.Int(logx.FieldResponseStatus, status), logx.Error(err))
	} else {
		logger(ctx).Info("request rejected", slog.Int(logx.FieldResponseStatus, status), logx.Error(err))
	}

	JSON(ctx, w, status, response)
}

func render(err error) (int, errorResponse) {
	var c coded
	if errors.As(err, &c) {
		status, ok := statusByCode[c.ErrorCode()]
		if !ok {
			status = http.StatusInternalServerError
		}

		return status, errorResponse{Code: c.ErrorCode().String(), Message: c.Description()}
	}

	response := errorResponse{
		Code:    failure.Code(err).String(),
		Message: failure.Description(err),
	}

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
		return http.StatusBadRequest, response
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
		return http.StatusNotFound, response
	default:
		return http.StatusInternalServerError, errorResponse{
			Code:    errcodes.InternalServerError.String(),
			Message: "internal error",
		}
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
