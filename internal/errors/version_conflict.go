package errors

import "net/http"

var ErrVersionConflict = &Exception{
	Message:    "task was modified concurrently",
	StatusCode: http.StatusConflict,
}
