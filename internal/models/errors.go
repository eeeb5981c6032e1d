package models

import (
	"errors"
)

var (
	ErrNoRecord     = errors.New("models: no matching record found")
	ErrNoIdentity   = errors.New("models: no signed-in identity")
	ErrUserNotFound = errors.New("models: user not found")
	ErrItemNotFound = errors.New("models: item not found")
)
