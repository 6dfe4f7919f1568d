package mouse

import "errors"

var (
	ErrUnknownSensor   = errors.New("unknown sensor")
	ErrDuplicateSensor = errors.New("duplicate sensor name")
	ErrNoSensors       = errors.New("mouse has no sensors")
)
