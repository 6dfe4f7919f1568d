package sensor

import "errors"

var ErrInvalidParams = errors.New("invalid sensor parameters")
