package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/recording-manager/internal/command"
	"github.com/openkcm/recording-manager/internal/recording"
	"github.com/openkcm/recording-manager/internal/serviceerr"
)

type startRecordingResponse struct {
	SessionID string `json:"sessionId"`
}

type listRecordingsResponse struct {
	Sessions []recording.Session `json:"sessions"`
}

type invokeRequest struct {
	Args []string `json:"args"`
}

type invokeResponse struct {
	Result string `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// recordingsServer serves the recording commands over JSON.
type recordingsServer struct {
	registry   *recording.Registry
	dispatcher *command.Dispatcher
}

func newRecordingsServer(registry *recording.Registry) *recordingsServer {
	return &recordingsServer{
		registry:   registry,
		dispatcher: command.NewDispatcher(registry),
	}
}

func (s *recordingsServer) routes(traced traceMiddleware) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /ping", traced("Ping", pingHandlerFunc))
	mux.Handle("POST /recordings", traced("StartRecording", s.startRecording))
	mux.Handle("GET /recordings", traced("ListRecordings", s.listRecordings))
	mux.Handle("GET /recordings/{id}", traced("GetRecording", s.getRecording))
	mux.Handle("POST /recordings/{id}/pause", traced("PauseRecording", s.sessionCommand(command.PauseRecording)))
	mux.Handle("POST /recordings/{id}/resume", traced("ResumeRecording", s.sessionCommand(command.ResumeRecording)))
	mux.Handle("POST /recordings/{id}/stop", traced("StopRecording", s.sessionCommand(command.StopRecording)))
	mux.Handle("GET /history/{id}", traced("GetHistory", s.getHistory))
	mux.Handle("POST /commands/{name}", traced("InvokeCommand", s.invokeCommand))

	return mux
}

func (s *recordingsServer) startRecording(w http.ResponseWriter, r *http.Request) {
	id, err := s.dispatcher.Invoke(r.Context(), command.StartRecording)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, startRecordingResponse{SessionID: id})
}

func (s *recordingsServer) sessionCommand(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.dispatcher.Invoke(r.Context(), name, r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *recordingsServer) listRecordings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, listRecordingsResponse{Sessions: s.registry.List(r.Context())})
}

func (s *recordingsServer) getRecording(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, session)
}

func (s *recordingsServer) getHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := s.registry.Archive().Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			err = &command.Error{Kind: serviceerr.ErrNotFound, Message: "no history for session \"" + id + "\""}
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, rec)
}

func (s *recordingsServer) invokeCommand(w http.ResponseWriter, r *http.Request) {
	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, &command.Error{Kind: serviceerr.ErrInvalidRequest, Message: "invalid request body: " + err.Error()})
		return
	}

	result, err := s.dispatcher.Invoke(r.Context(), r.PathValue("name"), req.Args...)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, invokeResponse{Result: result})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slogctx.Warn(r.Context(), "Could not write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := command.Kind(err).HTTPStatus()
	if status >= http.StatusInternalServerError {
		slogctx.Error(r.Context(), "Request failed", "error", err)
	}

	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}
