package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrDuplicate = errors.New("product with this EAN already exists")
)

// FieldError mirrors the validation error items the API has always
// returned.
type FieldError struct {
	Type     string `json:"type"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	paths := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		paths[i] = fe.Path
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(paths, ", "))
}

func (e *ValidationError) Add(location, path, msg string) {
	e.Errors = append(e.Errors, FieldError{Type: "field", Msg: msg, Path: path, Location: location})
}

// OrNil returns e only when it holds at least one error.
func (e *ValidationError) OrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
