package repository

import "errors"

// ErrStaleUpdate is returned when a conditional update matched no row.
var ErrStaleUpdate = errors.New("repository: conditional update matched no row")
