package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNoFile          = errors.New("no file attached")
	ErrInvalidWorkbook = errors.New("unable to read workbook")
	ErrEmptySheet      = errors.New("sheet is empty")
	ErrUnknownLayout   = errors.New("provide LONG (Chapter|Year|Active Members) or WIDE (Chapter|2021|2022|...) layout")
	ErrUnknownChapter  = errors.New("unknown chapter")
	ErrRecordNotFound  = errors.New("record not found")
	ErrInvalidCSV      = errors.New("unable to parse CSV")
	ErrStorageDisabled = errors.New("blob storage is not configured")
)

// Is and As re-export the stdlib helpers so callers only import one
// errors package.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// FormatError marks a malformed upload: a missing sheet, header or column
// the import cannot proceed without. Handlers map it to a 400 response.
type FormatError struct {
	Requirement string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("upload is missing required %s", e.Requirement)
}

func NewFormatError(requirement string) error {
	return FormatError{Requirement: requirement}
}

// IsBadUpload reports whether err describes a client-side upload problem
// rather than a server/storage failure.
func IsBadUpload(err error) bool {
	var fe FormatError
	if errors.As(err, &fe) {
		return true
	}
	return errors.Is(err, ErrNoFile) ||
		errors.Is(err, ErrInvalidWorkbook) ||
		errors.Is(err, ErrEmptySheet) ||
		errors.Is(err, ErrUnknownLayout) ||
		errors.Is(err, ErrInvalidCSV)
}
