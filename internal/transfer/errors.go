package transfer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies transfer errors.
type ErrorKind string

const (
	KindAlreadyInProgress   ErrorKind = "AlreadyInProgress"
	KindInvalidFileName     ErrorKind = "InvalidFileName"
	KindFetchFailed         ErrorKind = "FetchFailed"
	KindRelocationFailed    ErrorKind = "RelocationFailed"
	KindPermissionFixFailed ErrorKind = "PermissionFixFailed"
)

// TransferError is the error type for all transfer-related failures.
type TransferError struct {
	Kind    ErrorKind
	File    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *TransferError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *TransferError) Unwrap() error {
	return e.Cause
}

// Kind returns the classification of err, or "" when err is not a
// TransferError.
func Kind(err error) ErrorKind {
	var te *TransferError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// NewAlreadyInProgressError creates an error for duplicate admission attempts
func NewAlreadyInProgressError(fileName, reason string) error {
	return &TransferError{
		Kind:    KindAlreadyInProgress,
		File:    fileName,
		Message: reason,
	}
}

// NewInvalidFileNameError creates an error for rejected file names
func NewInvalidFileNameError(fileName, reason string) error {
	return &TransferError{
		Kind:    KindInvalidFileName,
		File:    fileName,
		Message: fmt.Sprintf("invalid file name %q: %s", fileName, reason),
	}
}

// NewFetchFailedError creates an error for failed remote fetches
func NewFetchFailedError(fileName string, cause error) error {
	return &TransferError{
		Kind:    KindFetchFailed,
		File:    fileName,
		Message: fmt.Sprintf("fetch of %s failed", fileName),
		Cause:   cause,
	}
}

// NewRelocationFailedError creates an error for failed moves into the
// target directory
func NewRelocationFailedError(fileName string, cause error) error {
	return &TransferError{
		Kind:    KindRelocationFailed,
		File:    fileName,
		Message: fmt.Sprintf("relocation of %s failed", fileName),
		Cause:   cause,
	}
}

// NewPermissionFixError creates the non-fatal error reported when the
// post-move chmod fails
func NewPermissionFixError(fileName string, cause error) error {
	return &TransferError{
		Kind:    KindPermissionFixFailed,
		File:    fileName,
		Message: fmt.Sprintf("could not set permissions on %s", fileName),
		Cause:   cause,
	}
}
