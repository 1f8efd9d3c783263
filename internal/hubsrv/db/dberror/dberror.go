// Package dberror defines the sentinel errors surfaced by the database layer.
package dberror

import (
	"net/http"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
)

var (
	// ErrDatabase is the base error for all database failures.
	ErrDatabase apperrors.Error = apperrors.New("database error").SetStatusCode(http.StatusInternalServerError)

	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound apperrors.Error = ErrDatabase.New("not found").SetStatusCode(http.StatusNotFound)

	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists apperrors.Error = ErrDatabase.New("already exists").SetStatusCode(http.StatusConflict)

	// ErrSlotConflict indicates the requested interval overlaps an existing
	// session for the same mentor.
	ErrSlotConflict apperrors.Error = ErrDatabase.New("requested time overlaps an existing session").SetStatusCode(http.StatusConflict)
)
