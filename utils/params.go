package utils

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// ParsePagination reads ?skip= and ?limit= with a default and a hard cap.
func ParsePagination(r *http.Request, def, max int64) (skip, limit int64) {
	q := r.URL.Query()

	limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}

	skip, _ = strconv.ParseInt(q.Get("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}

// ParseSort maps a ?sort= value through allowed and falls back to def.
func ParseSort(value string, def bson.D, allowed map[string]bson.D) bson.D {
	if value == "" {
		return def
	}
	if allowed != nil {
		if d, ok := allowed[value]; ok {
			return d
		}
	}
	return def
}
