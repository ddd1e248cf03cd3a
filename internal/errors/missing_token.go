package errors

import "net/http"

var ErrMissingToken = &Exception{
	Message:    "missing or invalid bearer token",
	StatusCode: http.StatusUnauthorized,
}
