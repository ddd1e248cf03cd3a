package errors

import "net/http"

var ErrInvalidTransition = &Exception{
	Message:    "invalid status transition",
	StatusCode: http.StatusUnprocessableEntity,
}
