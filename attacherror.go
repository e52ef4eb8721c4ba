// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"errors"
	"strings"
)

var (
	// ErrUnsupportedAttachment should be wrapped by an AttachmentFactory if the type of an
	// attachment is not recognized
	ErrUnsupportedAttachment = errors.New("unsupported attachment type")

	// ErrNoAttachmentData is returned if an attachment storage holds neither data nor an
	// embedded message
	ErrNoAttachmentData = errors.New("no attachment data")
)

// List of AttachmentError reasons
const (
	// ErrAttachUnsupported is returned if the type of an attachment is not recognized and
	// the AttachmentErrorBehavior does not allow placeholders for unsupported attachments
	ErrAttachUnsupported AttachErrReason = iota

	// ErrAttachBroken is returned if an attachment could not be read and the
	// AttachmentErrorBehavior does not allow placeholders for broken attachments
	ErrAttachBroken
)

// AttachErrReason represents a comparable reason on why an attachment failed
type AttachErrReason int

// AttachmentError is an error wrapper for attachments that could not be constructed.
//
// It holds the name of the storage of the affected attachment, the reason code and the
// error returned by the AttachmentFactory.
type AttachmentError struct {
	Entry  string
	Reason AttachErrReason
	err    error
}

// Error implements the error interface for the AttachmentError type.
//
// The message consists of the reason, the affected storage and the cause of the failure.
//
// Returns:
//   - A string representing the error message.
func (e *AttachmentError) Error() string {
	if e.Reason > ErrAttachBroken {
		return "unknown reason"
	}

	var errMessage strings.Builder
	errMessage.WriteString(e.Reason.String())
	if e.Entry != "" {
		errMessage.WriteString(", affected storage: ")
		errMessage.WriteString(e.Entry)
	}
	if e.err != nil {
		errMessage.WriteString(": ")
		errMessage.WriteString(e.err.Error())
	}
	return errMessage.String()
}

// Is implements the errors.Is functionality and compares the AttachErrReason.
//
// Parameters:
//   - errType: The error to compare against the current AttachmentError.
//
// Returns:
//   - true if the errors have the same reason, false otherwise.
func (e *AttachmentError) Is(errType error) bool {
	var t *AttachmentError
	if errors.As(errType, &t) && t != nil {
		return e.Reason == t.Reason
	}
	return false
}

// Unwrap returns the error returned by the AttachmentFactory
func (e *AttachmentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// String satisfies the fmt.Stringer interface for the AttachErrReason type.
//
// Returns:
//   - A string representing the reason of the attachment failure.
func (r AttachErrReason) String() string {
	switch r {
	case ErrAttachUnsupported:
		return "attachment type is not supported"
	case ErrAttachBroken:
		return "attachment is broken"
	}
	return "unknown reason"
}
