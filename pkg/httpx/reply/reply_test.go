package reply_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"bikeship/pkg/contextx"
	"bikeship/pkg/errcodes"
	"bikeship/pkg/httpx/reply"
)

type codedErr struct {
	code failure.ErrorCode
	msg  string
}

func (e codedErr) Error() string                { return string(e.code) + ": " + e.msg }
func (e codedErr) ErrorCode() failure.ErrorCode { return e.code }
func (e codedErr) Description() string          { return e.msg }

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("handler: %w", codedErr{code: errcodes.InvalidPortal, msg: "unknown portal X"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "InvalidPortal",
			wantMsg:    "unknown portal X",
		},
		{
			name:       "no analysis",
			err:        codedErr{code: errcodes.NoEligibleQuotes, msg: "no quote has a valid price"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "NoEligibleQuotes",
		},
		{
			name:       "not found",
			err:        codedErr{code: errcodes.ShipmentNotFound, msg: "missing"},
			wantStatus: http.StatusNotFound,
			wantCode:   "ShipmentNotFound",
		},
		{
			name:       "backend unavailable",
			err:        codedErr{code: errcodes.BackendUnavailable},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "BackendUnavailable",
		},
		{
			name:       "persistence failure",
			err:        codedErr{code: errcodes.PersistenceFailure},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "PersistenceFailure",
		},
		{
			name: "failure invalid argument",
			err: failure.NewInvalidArgumentError("bad json",
				failure.WithCode(errcodes.ValidationError),
				failure.WithDescription("Invalid JSON"),
			),
			wantStatus: http.StatusBadRequest,
			wantCode:   "ValidationError",
			wantMsg:    "Invalid JSON",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "InternalServerError",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			ctx := contextx.WithTraceID(context.Background(), "trace-1")
			rec := httptest.NewRecorder()

			reply.Error(ctx, rec, tc.err)

			rq.Equal(tc.wantStatus, rec.Code)

			var body struct {
				Code      string `json:"code"`
				Message   string `json:"message"`
				SupportID string `json:"supportId"`
			}
			rq.NoError(jsoniter.Unmarshal(rec.Body.Bytes(), &body))
			rq.Equal(tc.wantCode, body.Code)
			rq.Equal("trace-1", body.SupportID)
			if tc.wantMsg != "" {
				rq.Equal(tc.wantMsg, body.Message)
			}
		})
	}
}
