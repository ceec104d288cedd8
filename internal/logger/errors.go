package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
)

// writeErrorHandler reports events that could not be written, e.g. a full disk under the
// rolling files. zerolog drops the event afterwards.
func writeErrorHandler(err error) {
	writeFailures.Inc()
	_, _ = fmt.Fprintf(os.Stderr, "go-absensi logger: could not write event: %v\n", err)
}
