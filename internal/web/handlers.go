package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"daylist-cli/internal/model"
	"daylist-cli/internal/service"
	"daylist-cli/internal/store"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Success: false, Message: msg})
}

// decodeJSON reads exactly one JSON value and rejects unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON body")
	}
	return nil
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, store.ErrInvalidTask):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Printf("store error: %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "store")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date != "" && !model.ValidDate(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	items, err := s.store.ListTasks(r.Context(), date)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     string `json:"date"`
		Title    string `json:"title"`
		Notes    string `json:"notes"`
		Priority string `json:"priority"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	item, err := s.store.CreateTask(r.Context(), model.Task{
		Date:     req.Date,
		Title:    req.Title,
		Notes:    req.Notes,
		Priority: model.Priority(req.Priority),
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleTaskUpdate serves both PUT and PATCH: absent fields keep their value.
// The order hint is not editable here; it only changes through update-order.
func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     *string `json:"date"`
		Title    *string `json:"title"`
		Notes    *string `json:"notes"`
		Priority *string `json:"priority"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	item, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if req.Date != nil {
		item.Date = *req.Date
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.Priority != nil {
		item.Priority = model.Priority(*req.Priority)
	}
	item, err = s.store.UpdateTask(r.Context(), item)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateOrderBody mirrors model.ReorderRequest with pointers so that missing
// fields can be told apart from zero values.
type updateOrderBody struct {
	Tasks *[]struct {
		ID    *string `json:"id"`
		Order *int    `json:"order"`
	} `json:"tasks"`
}

func (b updateOrderBody) request() (model.ReorderRequest, error) {
	if b.Tasks == nil {
		return model.ReorderRequest{}, errors.New("missing tasks")
	}
	req := model.ReorderRequest{Tasks: make([]model.ReorderEntry, 0, len(*b.Tasks))}
	for _, e := range *b.Tasks {
		if e.ID == nil || e.Order == nil {
			return model.ReorderRequest{}, errors.New("each task needs id and order")
		}
		req.Tasks = append(req.Tasks, model.ReorderEntry{ID: *e.ID, Order: *e.Order})
	}
	return req, nil
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var body updateOrderBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	req, err := body.request()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reorder.Apply(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMalformedRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Printf("update-order failed after %d tasks: %v", out.Modified, err)
		writeJSON(w, http.StatusInternalServerError, out)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
