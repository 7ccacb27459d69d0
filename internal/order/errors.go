package order

import (
	"errors"
	"fmt"
)

var (
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	ErrUnknownRowStore     = errors.New("unknown row store")
)

type ErrEmptyField struct {
	Field string
}

func (e *ErrEmptyField) Error() string {
	return fmt.Sprintf("order field %q is empty", e.Field)
}
