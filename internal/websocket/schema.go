package websocket

import "github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventSnapshot Event = "snapshot"
	EventImport   Event = "import"
)

// SnapshotResponse carries the last finished report, sent once on connect.
type SnapshotResponse struct {
	Event  Event               `json:"event"`
	Report *model.ImportReport `json:"report"`
}

// ImportResponse relays one run lifecycle event.
type ImportResponse struct {
	Event Event             `json:"event"`
	Data  model.ImportEvent `json:"data"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
