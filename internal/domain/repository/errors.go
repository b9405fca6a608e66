package repository

import "errors"

// ErrAlreadyExists is returned by a create that hit an existing key.
var ErrAlreadyExists = errors.New("record already exists")
