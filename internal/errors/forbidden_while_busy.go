package errors

import "net/http"

var ErrForbiddenWhileBusy = &Exception{
	Message:    "manual status change forbidden while busy",
	StatusCode: http.StatusConflict,
}
