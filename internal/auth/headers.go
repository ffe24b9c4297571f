package auth

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNoAuthHeader        = errors.New("missing authorization header")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
)

// GetBearerToken pulls the bearer token out of a request's Authorization
// header. A missing header is reported separately from a malformed one.
func GetBearerToken(h http.Header) (string, error) {
	value := h.Get("Authorization")
	if value == "" {
		return "", ErrNoAuthHeader
	}
	return ExtractBearerToken(value)
}

// GetAPIKey is the ApiKey-scheme counterpart of GetBearerToken.
func GetAPIKey(h http.Header) (string, error) {
	value := h.Get("Authorization")
	if value == "" {
		return "", ErrNoAuthHeader
	}
	return ExtractAPIKey(value)
}

// ExtractBearerToken tokenizes the header value on whitespace and requires
// the scheme literal "Bearer" (case-sensitive). Fields past the token are
// ignored.
func ExtractBearerToken(header string) (string, error) {
	return extractScheme(header, "Bearer")
}

// ExtractAPIKey is the same contract with the scheme literal "ApiKey".
func ExtractAPIKey(header string) (string, error) {
	return extractScheme(header, "ApiKey")
}

func extractScheme(header, scheme string) (string, error) {
	fields := strings.Fields(header)
	if len(fields) < 2 || fields[0] != scheme {
		return "", ErrMalformedAuthHeader
	}
	return fields[1], nil
}
