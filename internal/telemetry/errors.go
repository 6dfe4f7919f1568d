package telemetry

import "errors"

var (
	ErrServerClosed         = errors.New("telemetry server is closed")
	ErrServerNotRunning     = errors.New("telemetry server is not running")
	ErrServerAlreadyRunning = errors.New("telemetry server is already running")
	ErrListenerFailed       = errors.New("failed to create listener")
)
