package types

import "errors"

var ErrUnknownIndicatorKind = errors.New("unknown indicator kind")

var ErrUnsupportedInterval = errors.New("unsupported interval")
