package system

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type JSONError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *System) serveJSON(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("error encoding response", zap.Error(err))
	}
}

func (s *System) serveJsonError(w http.ResponseWriter, e string, code int) {
	s.serveJSON(w, JSONError{Error: e}, code)
}

// serveInternalError answers 500 with msg. The cause is only echoed in development mode.
func (s *System) serveInternalError(w http.ResponseWriter, msg string, err error) {
	resp := JSONError{Error: msg}
	if s.devmode && err != nil {
		resp.Details = err.Error()
	}
	s.serveJSON(w, resp, http.StatusInternalServerError)
}
