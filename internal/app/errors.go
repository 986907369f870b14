package service

import (
	"errors"
	"fmt"

	"github.com/okian/aigi/internal/domain/snapshot"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoSnapshot = fmt.Errorf("%w: none published", snapshot.ErrNotFound)
	ErrNoCatalog  = errors.New("snapshot catalog not configured")
)
