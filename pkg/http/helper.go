package http

import (
	"net/http"
	"strconv"
	"strings"

	"gather/pkg/config"
	apperrors "gather/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractIDs reads a comma separated "ids" query parameter. Repeated
// parameters are accepted too. Blank entries are kept as empty strings so the
// identifier normalizer decides what to drop.
func ExtractIDs(r *http.Request) []any {
	var ids []any
	for _, v := range r.URL.Query()["ids"] {
		for _, part := range strings.Split(v, ",") {
			ids = append(ids, strings.TrimSpace(part))
		}
	}
	return ids
}
