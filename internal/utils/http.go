package utils

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams returns a path parameter with a trailing ".json" or
// ".geojson" extension removed.
func ExtractIDFromParams(r *http.Request, paramName string) string {
	rawID := httprouter.ParamsFromContext(r.Context()).ByName(paramName)
	for _, ext := range []string{".geojson", ".json"} {
		if id, ok := strings.CutSuffix(rawID, ext); ok {
			return id
		}
	}
	return rawID
}

// ParseBoolParam reads a boolean query parameter. Missing values yield def;
// unparsable values are reported in fieldErrors.
func ParseBoolParam(r *http.Request, key string, def bool, fieldErrors map[string][]string) bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], "Invalid field value for field \""+key+"\".")
		return def
	}
	return v
}
