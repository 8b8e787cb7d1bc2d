package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/pantry/internal/model"
)

const (
	detailNotFound = "Item not found"
	detailDeleted  = "Item deleted"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// detail is the body of every non-entity response.
type detail struct {
	Detail string `json:"detail"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a {"detail": message} response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, detail{Detail: message})
}

func notFound(w http.ResponseWriter) {
	jsonError(w, http.StatusNotFound, detailNotFound)
}

func deleted(w http.ResponseWriter) {
	jsonResponse(w, http.StatusOK, detail{Detail: detailDeleted})
}

// serverError logs err against the request and writes a bare 500.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestID(r.Context()),
	)
	jsonError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target)
}

type validator interface {
	Validate() error
}

// decodeValid decodes and validates the request body. On failure it writes
// the error response and returns false.
func decodeValid(w http.ResponseWriter, r *http.Request, target validator) bool {
	if err := decodeJSON(w, r, target); err != nil {
		writeDecodeError(w, err)
		return false
	}
	if err := target.Validate(); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

// writeDecodeError maps a body decoding failure to 400 for malformed JSON
// and 422 for well-formed JSON of the wrong shape.
func writeDecodeError(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		jsonError(w, http.StatusUnprocessableEntity, fmt.Sprintf("%s: must be %s", field, jsonKind(typeErr.Type.Kind().String())))
	case errors.As(err, &maxErr):
		jsonError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		jsonError(w, http.StatusBadRequest, "request body required")
	default:
		jsonError(w, http.StatusBadRequest, "invalid request body")
	}
}

// jsonKind names a Go kind the way a JSON client would think of it.
func jsonKind(kind string) string {
	switch kind {
	case "int", "int64":
		return "an integer"
	case "bool":
		return "a boolean"
	case "string":
		return "a string"
	case "struct", "map":
		return "an object"
	default:
		return "a valid " + kind
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		jsonError(w, http.StatusUnprocessableEntity, verr.Error())
		return
	}
	jsonError(w, http.StatusUnprocessableEntity, err.Error())
}
