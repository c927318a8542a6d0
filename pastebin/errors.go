package pastebin

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of error that occurred.
type ErrorCode int

const (
	// ErrUnknown covers unrecognized service responses and transport failures.
	ErrUnknown ErrorCode = iota
	// ErrInvalidKey is returned when the service rejects the developer key.
	ErrInvalidKey
	// ErrBlockedIP is returned when the service has blocked the caller's IP.
	ErrBlockedIP
	// ErrEmptyPasteContent is returned before any request when content is empty.
	ErrEmptyPasteContent
	// ErrPasteTooBig is returned before any request when content exceeds MaxPasteSize.
	ErrPasteTooBig
	// ErrInvalidPasteFormat is returned when the service does not know the syntax format.
	ErrInvalidPasteFormat
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidKey:
		return "invalid key"
	case ErrBlockedIP:
		return "blocked ip"
	case ErrEmptyPasteContent:
		return "empty paste content"
	case ErrPasteTooBig:
		return "paste too big"
	case ErrInvalidPasteFormat:
		return "invalid paste format"
	default:
		return "unknown"
	}
}

// Error represents a failed paste creation.
//
// For ErrUnknown, Message holds the service's response body verbatim, or
// the transport error text when the request never completed. In the
// latter case Err is the transport error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pastebin: %s", e.Code)
	}
	return fmt.Sprintf("pastebin: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the ErrorCode carried by err, or ErrUnknown if err is not
// (and does not wrap) an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsInvalidKey returns true if the service rejected the developer key.
func IsInvalidKey(err error) bool { return hasCode(err, ErrInvalidKey) }

// IsBlockedIP returns true if the service blocked the caller's IP.
func IsBlockedIP(err error) bool { return hasCode(err, ErrBlockedIP) }

// IsEmptyPasteContent returns true if the paste had no content.
func IsEmptyPasteContent(err error) bool { return hasCode(err, ErrEmptyPasteContent) }

// IsPasteTooBig returns true if the paste exceeded MaxPasteSize.
func IsPasteTooBig(err error) bool { return hasCode(err, ErrPasteTooBig) }

// IsInvalidPasteFormat returns true if the service rejected the syntax format.
func IsInvalidPasteFormat(err error) bool { return hasCode(err, ErrInvalidPasteFormat) }

// IsUnknown returns true for unclassified failures, including transport errors.
func IsUnknown(err error) bool { return hasCode(err, ErrUnknown) }

// IsTransport returns true if the request never completed.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrUnknown && e.Err != nil
}
