package server

import (
	"context"
	"net/http"

	"github.com/samber/lo"

	"bikeship/internal/domain/entity"
	"bikeship/pkg/httpx/reply"
	"bikeship/pkg/rest"
)

type connectionProber interface {
	ConnectionStatus(ctx context.Context) entity.ConnectionStatus
	RemoteName() string
}

type connectionMonitor interface {
	Last() (entity.ConnectionStatus, bool)
}

type ConnectionServer struct {
	prober  connectionProber
	monitor connectionMonitor
}

// NewConnectionServer builds the connection endpoint. monitor may be nil.
func NewConnectionServer(prober connectionProber, monitor connectionMonitor) ConnectionServer {
	return ConnectionServer{
		prober:  prober,
		monitor: monitor,
	}
}

func (s ConnectionServer) getV1Connection(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	response := rest.Connection{
		Backend: s.prober.RemoteName(),
		Current: newRESTConnectionStatus(s.prober.ConnectionStatus(ctx)),
	}

	if s.monitor != nil {
		if last, ok := s.monitor.Last(); ok {
			response.Monitored = lo.ToPtr(newRESTConnectionStatus(last))
		}
	}

	reply.JSON(ctx, w, http.StatusOK, response)

	return nil
}
