package database

import "errors"

// ErrNotFound indicates a requested record does not exist.
var ErrNotFound = errors.New("database: not found")

// errMissingContext is returned by repositories built without a connection.
var errMissingContext = errors.New("database: missing collection context")
