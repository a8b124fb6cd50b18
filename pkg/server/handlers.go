package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/signup"
)

type setRequest struct {
	Value any `json:"value"`
}

type submitResponse struct {
	Values signup.Values `json:"values"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.form.Snapshot())
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")

	var req setRequest
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "bad_request",
			Message: "Body must be a JSON object with a value",
			Detail:  err.Error(),
		})
		return
	}

	if err := s.form.Set(path, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.form.Snapshot())
}

func (s *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	if err := s.form.Touch(chi.URLParam(r, "path")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.form.Snapshot())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	values, ok := s.form.Submit(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, s.form.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Values: values})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.form.Reset()
	writeJSON(w, http.StatusOK, s.form.Snapshot())
}

// writeError maps coded form errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var se *errors.SignupError
	if !stderrors.As(err, &se) {
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    "internal",
			Message: err.Error(),
		})
		return
	}

	status := http.StatusBadRequest
	switch se.Code {
	case "E301":
		status = http.StatusNotFound
	case "E302", "E303":
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, errorResponse{
		Code:    se.Code,
		Message: se.Message,
		Detail:  se.Detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
