package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"zoom-attendance-llm/capture"
	"zoom-attendance-llm/export"
	"zoom-attendance-llm/extract"
)

const sessionCookie = "attendance_session"

// maxUploadBytes caps participant panel screenshots at 16 MB.
const maxUploadBytes = 16 << 20

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// runCapture executes one submission for a session, recording metrics and
// mapping errors to HTTP status codes. Returns nil outcome when it has
// already written an error response.
func (s *Server) runCapture(w http.ResponseWriter, r *http.Request, h *sessionHandle, image []byte) (*capture.Outcome, bool) {
	provider := h.Session.Provider
	start := time.Now()
	out, err := h.Flow.Submit(r.Context(), image)
	s.metrics.CaptureDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, capture.ErrBusy):
		s.metrics.CapturesTotal.WithLabelValues(provider, "busy").Inc()
		writeJSONError(w, http.StatusConflict, err, "")
		return nil, false
	case err != nil:
		s.metrics.CapturesTotal.WithLabelValues(provider, "service_error").Inc()
		writeJSONError(w, http.StatusBadGateway, err, string(extract.KindOf(err)))
		return nil, false
	case out.NoneFound:
		s.metrics.CapturesTotal.WithLabelValues(provider, "none_found").Inc()
	default:
		s.metrics.CapturesTotal.WithLabelValues(provider, "ok").Inc()
	}
	return &out, true
}

func readImage(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxUploadBytes))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, err error, kind string) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

// --- JSON API ---

type createSessionRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

func (s *Server) apiCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err, "")
		return
	}
	id, err := s.sessions.Create(req.Provider, req.APIKey, req.Model)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err, "")
		return
	}
	s.metrics.SessionsActive.Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request) *sessionHandle {
	h, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err, "")
		return nil
	}
	return h
}

func (s *Server) apiCapture(w http.ResponseWriter, r *http.Request) {
	h := s.sessionFromPath(w, r)
	if h == nil {
		return
	}
	image, err := readImage(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err, "")
		return
	}
	out, ok := s.runCapture(w, r, h, image)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiTally(w http.ResponseWriter, r *http.Request) {
	h := s.sessionFromPath(w, r)
	if h == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": h.Session.ID,
		"attendees":  h.Session.Snapshot(),
	})
}

func (s *Server) apiExport(w http.ResponseWriter, r *http.Request) {
	h := s.sessionFromPath(w, r)
	if h == nil {
		return
	}
	s.writeCSV(w, h)
}

func (s *Server) apiReset(w http.ResponseWriter, r *http.Request) {
	h := s.sessionFromPath(w, r)
	if h == nil {
		return
	}
	h.Session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.sessions.Get(id); err != nil {
		writeJSONError(w, http.StatusNotFound, err, "")
		return
	}
	s.sessions.Delete(id)
	s.metrics.SessionsActive.Dec()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeCSV(w http.ResponseWriter, h *sessionHandle) {
	entries := h.Session.Snapshot()
	if len(entries) == 0 {
		writeJSONError(w, http.StatusConflict, export.ErrEmptyRecord, "")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.FileName(time.Now()))
	if err := export.WriteCSV(w, entries); err != nil {
		s.logger.Error().Err(err).Msg("csv export failed")
		return
	}
	s.metrics.ExportsTotal.Inc()
}

// --- Browser flow ---

func (s *Server) sessionFromCookie(r *http.Request) *sessionHandle {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	h, err := s.sessions.Get(c.Value)
	if err != nil {
		return nil
	}
	return h
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	h := s.sessionFromCookie(r)
	data := pageData{
		Message:            r.URL.Query().Get("msg"),
		DefaultModel:       s.defaultModel,
		DefaultGeminiModel: s.defaultGeminiModel,
	}
	if h != nil {
		data.HasSession = true
		data.Provider = h.Session.Provider
		data.Attendees = h.Session.Snapshot()
	}
	s.renderIndex(w, data)
}

func (s *Server) handleCreateSessionForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.sessions.Create(r.FormValue("provider"), r.FormValue("api_key"), r.FormValue("model"))
	if err != nil {
		s.redirectWithMessage(w, r, "Could not start session: "+err.Error())
		return
	}
	s.metrics.SessionsActive.Inc()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.redirectWithMessage(w, r, "Session started.")
}

func (s *Server) handleCaptureForm(w http.ResponseWriter, r *http.Request) {
	h := s.sessionFromCookie(r)
	if h == nil {
		s.redirectWithMessage(w, r, "Start a session first.")
		return
	}
	image, err := readImage(r)
	if err != nil {
		s.redirectWithMessage(w, r, "Upload failed: "+err.Error())
		return
	}

	provider := h.Session.Provider
	start := time.Now()
	out, err := h.Flow.Submit(r.Context(), image)
	s.metrics.CaptureDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	switch {
	case errors.Is(err, capture.ErrBusy):
		s.metrics.CapturesTotal.WithLabelValues(provider, "busy").Inc()
		s.redirectWithMessage(w, r, "A capture is already running, please retry.")
	case err != nil:
		s.metrics.CapturesTotal.WithLabelValues(provider, "service_error").Inc()
		s.redirectWithMessage(w, r, "Extraction failed: "+err.Error())
	case out.NoneFound:
		s.metrics.CapturesTotal.WithLabelValues(provider, "none_found").Inc()
		s.redirectWithMessage(w, r, "No participants detected. Check the screenshot.")
	default:
		s.metrics.CapturesTotal.WithLabelValues(provider, "ok").Inc()
		s.redirectWithMessage(w, r, formatOutcome(out))
	}
}

func (s *Server) handleExportForm(w http.ResponseWriter, r *http.Request) {
	h := s.sessionFromCookie(r)
	if h == nil {
		s.redirectWithMessage(w, r, "Start a session first.")
		return
	}
	entries := h.Session.Snapshot()
	if len(entries) == 0 {
		s.redirectWithMessage(w, r, "Nothing to export yet.")
		return
	}
	s.writeCSV(w, h)
}

func (s *Server) handleResetForm(w http.ResponseWriter, r *http.Request) {
	h := s.sessionFromCookie(r)
	if h == nil {
		s.redirectWithMessage(w, r, "Start a session first.")
		return
	}
	h.Session.Reset()
	s.redirectWithMessage(w, r, "Attendance data cleared.")
}

func (s *Server) redirectWithMessage(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func formatOutcome(out capture.Outcome) string {
	return fmt.Sprintf("Detected %d participants (%d new).", len(out.Names), out.NewAttendees)
}
