package pricetrack

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	ECONFIG   = "config"

	// Page acquisition failures.
	ETIMEOUT     = "timeout"
	EBLOCKED     = "blocked"
	EGONE        = "page_not_found"
	EUNAVAILABLE = "unavailable"

	// Content-level extraction failures.
	ENOTITLE = "title_missing"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pricetrack error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return their error string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsRetryable reports whether err is a transient page acquisition failure
// (timeout or server unavailable) that may succeed on a later attempt.
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case ETIMEOUT, EUNAVAILABLE:
		return true
	}
	return false
}

// UserMessage returns a client-facing description of err that lets the
// caller tell timeouts, blocks, missing pages and server outages apart.
func UserMessage(err error) string {
	switch ErrorCode(err) {
	case "":
		return ""
	case ETIMEOUT:
		return "The store took too long to respond. Please try again later."
	case EBLOCKED:
		return "The store blocked the request. This site may not support price tracking."
	case EGONE:
		return "The product page was not found. Check that the URL is correct."
	case EUNAVAILABLE:
		return "The store is temporarily unavailable. Please try again later."
	case ENOTITLE:
		return "Could not find product information on this page."
	case ECONFIG:
		return "This store requires browser rendering, which is not available."
	case ENOTFOUND:
		return "The tracked item does not exist."
	case EINVALID, ECONFLICT:
		return ErrorMessage(err)
	}
	return "Failed to scrape the product page."
}
