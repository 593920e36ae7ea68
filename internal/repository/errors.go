package repository

import "errors"

// ErrNoRecord is returned by update paths when the target row is absent.
var ErrNoRecord = errors.New("record not found")
