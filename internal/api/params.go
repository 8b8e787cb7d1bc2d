package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/erazemk/pantry/internal/model"
)

// pathID parses a numeric path segment. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// queryString returns the parameter if it is present, even when empty.
func queryString(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

// queryBool parses an optional boolean parameter.
func queryBool(q url.Values, key string) (*bool, error) {
	if !q.Has(key) {
		return nil, nil
	}
	var v bool
	switch strings.ToLower(q.Get(key)) {
	case "true", "1", "yes", "on":
		v = true
	case "false", "0", "no", "off":
		v = false
	default:
		return nil, model.NewValidationError(key, "must be a boolean")
	}
	return &v, nil
}
