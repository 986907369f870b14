package feed

import "errors"

var (
	// ErrUnknownSource indicates a feed name that maps to no metric.
	ErrUnknownSource = errors.New("unknown feed source")
	// ErrDuplicateSource indicates the same feed was supplied twice.
	ErrDuplicateSource = errors.New("duplicate feed source")
	// ErrDecode indicates a feed document could not be decoded.
	ErrDecode = errors.New("decode feed")
)
