package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/dataprocessing"
	apperrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
)

// Service errors
var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrUnknownView   = errors.New("unknown view")
	ErrNoFilesFound  = errors.New("no spreadsheets found")
)

// AsAPIError translates pipeline failures into API errors carrying the
// offending columns, row and value. Errors that are already API errors,
// context errors and unknown errors pass through unchanged.
func AsAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var (
		parseErr  *dataprocessing.ParseError
		schemaErr *dataprocessing.SchemaError
		valueErr  *dataprocessing.ValueError
	)
	switch {
	case errors.As(err, &parseErr):
		return apperrors.SpreadsheetUnreadable(parseErr.Error())
	case errors.As(err, &schemaErr):
		return apperrors.SpreadsheetSchema(schemaErr.Error(), schemaErr.Missing, schemaErr.Duplicates)
	case errors.As(err, &valueErr):
		return apperrors.SpreadsheetValue(valueErr.Error(), valueErr.Column, valueErr.Row, valueErr.Value)
	case errors.Is(err, ErrUnknownFormat), errors.Is(err, ErrUnknownView):
		return apperrors.New(http.StatusBadRequest, apperrors.CodeValidationFailed, err.Error())
	}
	return err
}
