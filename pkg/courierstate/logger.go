package courierstate

import (
	"fmt"
	"os"
)

// Logger defines the logging methods the client uses. Implementations should
// be cheap; the client logs little outside failures.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything. It is the default.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Errorf(string, ...any) {}

// FmtLogger prints with level prefixes, debug to stdout and errors to stderr.
type FmtLogger struct{}

func (FmtLogger) Debugf(format string, args ...any) {
	fmt.Printf("[DEBUG] "+format+"\n", args...)
}

func (FmtLogger) Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
