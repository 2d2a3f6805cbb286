package server

import (
	"encoding/json"
	"log"
	"net/http"

	"marklive/internal/preview"
	"marklive/internal/share"
	"marklive/internal/store"
)

type shareRequest struct {
	Content string `json:"content"`
}

type shareResponse struct {
	Token    string `json:"token"`
	Fragment string `json:"fragment"`
}

type decodeRequest struct {
	Fragment string `json:"fragment"`
}

type decodeResponse struct {
	Content string `json:"content"`
}

type themePayload struct {
	Theme string `json:"theme"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleShareEncode(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{
		Token:    share.Encode(req.Content),
		Fragment: share.Fragment(req.Content),
	})
}

// handleShareDecode turns a URL fragment back into document content.
// The fragment arrives in the body because browsers never send the
// fragment part of a URL to the server.
func (s *Server) handleShareDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	content, ok := share.ParseFragment(req.Fragment)
	if !ok {
		// Untrusted input; a bad token is a client-side no-op, not a
		// server error worth logging.
		writeError(w, http.StatusUnprocessableEntity, "unrecognized share fragment")
		return
	}
	writeJSON(w, http.StatusOK, decodeResponse{Content: content})
}

func (s *Server) handleThemeGet(w http.ResponseWriter, r *http.Request) {
	theme, ok, err := s.settings.Get(store.KeyTheme)
	if err != nil {
		log.Printf("server: reading theme: %v", err)
		writeError(w, http.StatusInternalServerError, "reading theme")
		return
	}
	if !ok {
		theme = s.cfg.Theme
	}
	writeJSON(w, http.StatusOK, themePayload{Theme: theme})
}

func (s *Server) handleThemePut(w http.ResponseWriter, r *http.Request) {
	var req themePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, ok := preview.ParseTheme(req.Theme); !ok {
		writeError(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}
	if err := s.settings.Set(store.KeyTheme, req.Theme); err != nil {
		log.Printf("server: saving theme: %v", err)
		writeError(w, http.StatusInternalServerError, "saving theme")
		return
	}
	writeJSON(w, http.StatusOK, themePayload{Theme: req.Theme})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
