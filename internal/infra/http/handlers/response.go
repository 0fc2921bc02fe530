package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/http/middleware"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

const maxBodyBytes = 1 << 20

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Fields   []fieldError `json:"fields,omitempty"`
	Blockers []entity.Ref `json:"blockers,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeError maps use case errors to status codes. Technical details are
// logged and never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var (
		verrs usecase.ValidationErrors
		br    *usecase.BusinessRuleError
		nf    *usecase.NotFoundError
		perr  *usecase.PermissionError
	)
	switch {
	case errors.As(err, &verrs):
		resp := ErrorResponse{Code: "VALIDATION_ERROR", Message: "request is invalid"}
		for _, v := range verrs {
			resp.Fields = append(resp.Fields, fieldError{Field: v.Field, Message: v.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &br):
		writeJSON(w, http.StatusConflict, ErrorResponse{Code: br.Code, Message: br.Message, Blockers: br.Blockers})
	case errors.As(err, &nf):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", nf.Error())
	case errors.As(err, &perr):
		writeErrorResponse(w, http.StatusForbidden, "FORBIDDEN", perr.Error())
	default:
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

// decodeJSON rejects unknown fields and bodies over 1 MiB.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return false
	}
	return true
}

// actorOf reads the actor set by the auth middleware. Routes without it are a
// wiring bug, answered with 401.
func actorOf(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}
	return actor, ok
}
