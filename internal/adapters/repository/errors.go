package repository

import "errors"

// Sentinel kinds for closet store errors.
var (
	ErrNotFound     = errors.New("garment not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
