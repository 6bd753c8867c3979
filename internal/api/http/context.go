package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// UserIDHeader carries the caller's user id. Sessions live outside this
// service, which trusts the header as set by the gateway in front of it.
const UserIDHeader = "X-User-ID"

// GetUserIDFromRequest extracts the caller's user id from the request headers.
func GetUserIDFromRequest(r *http.Request) (int64, *apiError) {
	raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if raw == "" {
		return 0, newAPIError(http.StatusUnauthorized, "UNAUTHENTICATED", UserIDHeader+" header is not provided")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, newAPIError(http.StatusBadRequest, "INVALID_ARGUMENT", "invalid "+UserIDHeader+" format")
	}
	return id, nil
}

// pathID reads a numeric route variable.
func pathID(r *http.Request, name string) (int64, *apiError) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, newAPIError(http.StatusBadRequest, "INVALID_ARGUMENT", "invalid "+name)
	}
	return id, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, *apiError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, newAPIError(http.StatusBadRequest, "INVALID_ARGUMENT", "invalid "+name)
	}
	return &v, nil
}

// queryBool reads an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, *apiError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, newAPIError(http.StatusBadRequest, "INVALID_ARGUMENT", "invalid "+name)
	}
	return &v, nil
}
