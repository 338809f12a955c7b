package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
	ws "github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ImportEventSource streams run events until ctx is done.
type ImportEventSource interface {
	Events(ctx context.Context) (<-chan model.ImportEvent, error)
}

// WSHandler streams import run events to operators.
type WSHandler struct {
	events        ImportEventSource
	importService *service.ImportService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(events ImportEventSource, importService *service.ImportService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		events:        events,
		importService: importService,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// ImportEventsStream godoc
// WS /ws/v1/admin/class-logs/import/events?token=
// Sends the last report once, then every run start and finish.
func (h *WSHandler) ImportEventsStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		_ = ws.DrainReads(conn)
	}()

	events, err := h.events.Events(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Subscribe to import events failed")
		ws.WriteError(conn, "event stream unavailable")
		return
	}

	if last, err := h.importService.LastReport(ctx); err == nil {
		if err := ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Report: last}); err != nil {
			return
		}
	}

	h.log.Debug().Msg("Operator subscribed to import events")

	ping := time.NewTicker(ws.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.ImportResponse{Event: ws.EventImport, Data: ev}); err != nil {
				h.log.Debug().Err(err).Msg("Import event write failed")
				return
			}
		case <-ping.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}
