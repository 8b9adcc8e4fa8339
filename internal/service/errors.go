package service

import (
	"errors"
	"strings"
)

var (
	ErrNoFieldsToUpdate = errors.New("no valid fields to update")
	ErrPhotoRequired    = errors.New("photoUrl or photo file is required")
	ErrNameRequired     = errors.New("name is required")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
