package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
)

// maxBodyBytes caps REST request bodies.
const maxBodyBytes = 1 << 20

// RegisterREST mounts the JSON REST routes on mux. They share the ledger
// operations with the Connect handlers, so events and metrics are the same
// whichever surface a client uses.
func (s *LedgerService) RegisterREST(mux *http.ServeMux) {
	mux.HandleFunc("GET /friends", s.handleListFriends)
	mux.HandleFunc("POST /friends", s.handleAddFriend)
	mux.HandleFunc("POST /selection", s.handleSelectFriend)
	mux.HandleFunc("DELETE /selection", s.handleClearSelection)
	mux.HandleFunc("POST /splits", s.handleSubmitSplit)
}

func (s *LedgerService) handleListFriends(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listFriends(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *LedgerService) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req AddFriendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	friend, err := s.addFriend(r.Context(), req.Name, req.Image)
	if err != nil {
		writeError(w, httpStatus(codeFor(err)), err)
		return
	}
	writeJSON(w, http.StatusCreated, friend)
}

func (s *LedgerService) handleSelectFriend(w http.ResponseWriter, r *http.Request) {
	var req SelectFriendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	selected, err := s.selectFriend(r.Context(), req.ID)
	if err != nil {
		writeError(w, httpStatus(codeFor(err)), err)
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{SelectedID: selected})
}

func (s *LedgerService) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	slog.Info("ClearSelection request received")
	s.ledger.ClearSelection()
	writeJSON(w, http.StatusOK, SelectionResponse{})
}

func (s *LedgerService) handleSubmitSplit(w http.ResponseWriter, r *http.Request) {
	var req SubmitSplitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.submitSplit(r.Context(), &req)
	if err != nil {
		writeError(w, httpStatus(codeForSplit(err)), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		slog.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

// writeJSON encodes v before writing the header, so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// httpStatus maps the Connect codes used by the ledger to REST statuses.
func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeFailedPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
