package errors

import "net/http"

var ErrInvalidStatus = &Exception{
	Message:    "unknown status value",
	StatusCode: http.StatusBadRequest,
}
