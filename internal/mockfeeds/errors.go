package mockfeeds

import "errors"

// ErrUnknownLayout is returned for a layout other than object or table.
var ErrUnknownLayout = errors.New("unknown feed layout")
