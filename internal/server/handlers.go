package server

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/javiermolinar/dayring/internal/export"
	"github.com/javiermolinar/dayring/internal/schedule"
)

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	var resp ScheduleResponse
	s.locked(func() { resp = s.snapshot() })
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	s.image(w, r, export.FormatSVG, "image/svg+xml")
}

func (s *Server) getPNG(w http.ResponseWriter, r *http.Request) {
	s.image(w, r, export.FormatPNG, "image/png")
}

func (s *Server) image(w http.ResponseWriter, r *http.Request, format, contentType string) {
	var p schedule.Partition
	s.locked(func() { p = s.editor.Partition() })

	var buf bytes.Buffer
	if err := export.Write(&buf, format, p, s.export); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// edit runs fn against the slot named in the URL and replies with the new state.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, index int) error) {
	index, err := indexParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var resp ScheduleResponse
	s.locked(func() {
		if err = fn(r.Context(), index); err == nil {
			resp = s.snapshot()
		}
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) retime(w http.ResponseWriter, r *http.Request) {
	var req TimeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	end, _ := schedule.ParseTime(req.Time)
	s.edit(w, r, func(ctx context.Context, i int) error {
		return s.editor.Retime(ctx, i, end)
	})
}

func (s *Server) moveStart(w http.ResponseWriter, r *http.Request) {
	var req TimeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	start, _ := schedule.ParseTime(req.Time)
	s.edit(w, r, func(ctx context.Context, i int) error {
		return s.editor.MoveStart(ctx, i, start)
	})
}

func (s *Server) insert(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, s.editor.Insert)
}

func (s *Server) deleteSlot(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, s.editor.Delete)
}

func (s *Server) rename(w http.ResponseWriter, r *http.Request) {
	var req LabelRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, func(ctx context.Context, i int) error {
		return s.editor.Rename(ctx, i, strings.TrimSpace(req.Label))
	})
}

func (s *Server) recolor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, func(ctx context.Context, i int) error {
		return s.editor.Recolor(ctx, i, req.Color)
	})
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	var names []string
	s.locked(func() { names = s.editor.Templates() })
	writeJSON(w, http.StatusOK, map[string][]string{"templates": names})
}

func (s *Server) loadTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var (
		resp ScheduleResponse
		err  error
	)
	s.locked(func() {
		if err = s.editor.LoadTemplate(r.Context(), name); err == nil {
			resp = s.snapshot()
		}
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.history(w, r, s.editor.Undo)
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.history(w, r, s.editor.Redo)
}

// history replies 200 even when there was nothing to undo or redo; the
// changed flag tells the caller.
func (s *Server) history(w http.ResponseWriter, r *http.Request, fn func(context.Context) (bool, error)) {
	var (
		resp    ScheduleResponse
		changed bool
		err     error
	)
	s.locked(func() {
		changed, err = fn(r.Context())
		resp = s.snapshot()
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.Changed = &changed
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) dragBegin(w http.ResponseWriter, r *http.Request) {
	var req DragBeginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var (
		resp ScheduleResponse
		err  error
	)
	s.locked(func() {
		if err = s.editor.BeginDrag(*req.Index); err == nil {
			resp = s.snapshot()
		}
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) dragMove(w http.ResponseWriter, r *http.Request) {
	var req DragMoveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var (
		resp ScheduleResponse
		err  error
	)
	s.locked(func() {
		if req.Time != "" {
			t, _ := schedule.ParseTime(req.Time)
			err = s.editor.DragToTime(r.Context(), t)
		} else {
			err = s.editor.DragTo(r.Context(), *req.X, *req.Y)
		}
		if err == nil {
			resp = s.snapshot()
		}
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) dragEnd(w http.ResponseWriter, r *http.Request) {
	var (
		resp    ScheduleResponse
		changed bool
	)
	s.locked(func() {
		changed = s.editor.EndDrag()
		resp = s.snapshot()
	})
	resp.Changed = &changed
	writeJSON(w, http.StatusOK, resp)
}
