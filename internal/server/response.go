package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/javiermolinar/dayring/internal/drag"
	"github.com/javiermolinar/dayring/internal/editor"
	"github.com/javiermolinar/dayring/internal/palette"
	"github.com/javiermolinar/dayring/internal/schedule"
)

// SlotDTO is one slot on the wire.
type SlotDTO struct {
	Index    int    `json:"index"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Minutes  int    `json:"minutes"`
	Duration string `json:"duration"`
}

// ScheduleResponse is the editor state returned by every endpoint.
type ScheduleResponse struct {
	Slots    []SlotDTO `json:"slots"`
	CanUndo  bool      `json:"can_undo"`
	CanRedo  bool      `json:"can_redo"`
	Dragging *int      `json:"dragging,omitempty"`
	// Changed is set by undo, redo and drag end.
	Changed *bool `json:"changed,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// errBadRequest marks malformed input.
var errBadRequest = errors.New("bad request")

func (s *Server) snapshot() ScheduleResponse {
	p := s.editor.Partition()
	resp := ScheduleResponse{
		Slots:   make([]SlotDTO, p.Len()),
		CanUndo: s.editor.CanUndo(),
		CanRedo: s.editor.CanRedo(),
	}
	for i, slot := range p.Slots() {
		resp.Slots[i] = SlotDTO{
			Index:    i,
			Start:    slot.Start.String(),
			End:      slot.End.String(),
			Label:    slot.Label,
			Color:    string(slot.Color),
			Minutes:  schedule.DurationMinutes(slot.Duration()),
			Duration: schedule.FormatDuration(slot.Duration()),
		}
	}
	if idx, ok := s.editor.Dragging(); ok {
		resp.Dragging = &idx
	}
	return resp
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps editor and model errors to HTTP status codes.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, schedule.ErrInvalidRetime),
		errors.Is(err, schedule.ErrNoRoomToInsert),
		errors.Is(err, schedule.ErrLastSlotUndeletable),
		errors.Is(err, editor.ErrDragInProgress),
		errors.Is(err, drag.ErrDragUnavailable),
		errors.Is(err, drag.ErrAlreadyDragging),
		errors.Is(err, drag.ErrNotDragging):
		return http.StatusConflict
	case errors.Is(err, schedule.ErrIndexOutOfRange),
		errors.Is(err, palette.ErrInvalidColor),
		errors.Is(err, errBadRequest),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, schedule.ErrUnknownTemplate):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Error = "invalid request"
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, fe.Field()+": "+fe.Tag())
		}
	}
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		resp.Error = "internal error"
	}
	writeJSON(w, code, resp)
}
