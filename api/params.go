package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/go-chi/chi/v5"
)

const (
	defaultProjectLimit = 20
	maxProjectLimit     = 100
)

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewInvalidParameterError(name, "must be a positive integer")
	}
	return id, nil
}

// queryInt reads an optional integer query parameter within [min, max].
func queryInt(r *http.Request, name string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, errs.NewInvalidParameterError(name, "must be an integer between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return v, nil
}

// pagination reads page (>= 1) and limit (1..maxLimit).
func pagination(r *http.Request, defaultLimit, maxLimit int) (page, limit int, err error) {
	if page, err = queryInt(r, "page", 1, 1, math.MaxInt32); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit", defaultLimit, 1, maxLimit); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
