// Package apperr is the error taxonomy shared by the domain packages and the
// HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind groups codes by how the boundary handles them.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthorization
	KindValidation
	KindNotFound
	KindTransport
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	case KindIntegrity:
		return "integrity"
	}
	return "internal"
}

// Code is a machine-readable error code. It doubles as the i18n message key.
type Code string

const (
	CodeInternal Code = "INTERNAL"
	CodeRequest  Code = "REQUEST_INVALID"
	CodeStore    Code = "STORE_UNAVAILABLE"

	CodeAuthRequired       Code = "AUTH_REQUIRED"
	CodeAuthForbidden      Code = "AUTH_FORBIDDEN"
	CodeInvalidCredentials Code = "AUTH_INVALID_CREDENTIALS"
	CodeInvalidToken       Code = "AUTH_INVALID_TOKEN"
	CodeUsernameTaken      Code = "USERNAME_TAKEN"
	CodeUserInvalid        Code = "USER_INVALID"
	CodeUserNotFound       Code = "USER_NOT_FOUND"

	CodeCampaignNotFound Code = "CAMPAIGN_NOT_FOUND"
	CodeSlugTaken        Code = "CAMPAIGN_SLUG_TAKEN"
	CodeNameRequired     Code = "CAMPAIGN_NAME_REQUIRED"
	CodeSlugInvalid      Code = "CAMPAIGN_SLUG_INVALID"
	CodeColorInvalid     Code = "CAMPAIGN_COLOR_INVALID"
	CodeSlugImmutable    Code = "CAMPAIGN_SLUG_IMMUTABLE"

	CodeUnknownType      Code = "SECTION_UNKNOWN_TYPE"
	CodeTitleRequired    Code = "SECTION_TITLE_REQUIRED"
	CodeContentRequired  Code = "SECTION_CONTENT_REQUIRED"
	CodeContentMismatch  Code = "SECTION_CONTENT_MISMATCH"
	CodeImageTooLarge    Code = "SECTION_IMAGE_TOO_LARGE"
	CodeVideoURLInvalid  Code = "SECTION_VIDEO_URL_INVALID"
	CodeButtonsRequired  Code = "SECTION_BUTTONS_REQUIRED"
	CodeButtonLimit      Code = "SECTION_BUTTON_LIMIT"
	CodeButtonName       Code = "SECTION_BUTTON_NAME_REQUIRED"
	CodeButtonAction     Code = "SECTION_BUTTON_ACTION_REQUIRED"
	CodeButtonType       Code = "SECTION_BUTTON_TYPE_INVALID"
	CodeButtonURL        Code = "SECTION_BUTTON_URL_INVALID"
	CodeNoButtons        Code = "SECTION_NO_BUTTONS"
	CodeIndexOutOfRange  Code = "SECTION_INDEX_OUT_OF_RANGE"
	CodeButtonOutOfRange Code = "SECTION_BUTTON_INDEX_OUT_OF_RANGE"
	CodeFieldInvalid     Code = "SECTION_FIELD_INVALID"
	CodeValueInvalid     Code = "SECTION_VALUE_INVALID"
	CodeSessionNotFound  Code = "EDITOR_SESSION_NOT_FOUND"
	CodeSuperseded       Code = "EDITOR_LOAD_SUPERSEDED"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Kind    Kind
	Code    Code
	Message string // internal message, for logs
	Field   string // offending field path, e.g. sections[2].title
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, code Code, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Validation(code Code, field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code Code, format string, args ...any) *Error {
	return New(KindNotFound, code, format, args...)
}

func Unauthorized(code Code, format string, args ...any) *Error {
	return New(KindAuthorization, code, format, args...)
}

func Transport(cause error, format string, args ...any) *Error {
	return Wrap(KindTransport, CodeStore, cause, format, args...)
}

func Integrity(code Code, field, format string, args ...any) *Error {
	return &Error{Kind: KindIntegrity, Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is checks.
var (
	ErrCampaignNotFound = &Error{Kind: KindNotFound, Code: CodeCampaignNotFound}
	ErrSlugTaken        = &Error{Kind: KindValidation, Code: CodeSlugTaken}
	ErrUsernameTaken    = &Error{Kind: KindValidation, Code: CodeUsernameTaken}
	ErrUserNotFound     = &Error{Kind: KindNotFound, Code: CodeUserNotFound}
	ErrSuperseded       = &Error{Kind: KindValidation, Code: CodeSuperseded}
)

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the code of err, CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// Problems collects several validation failures reported together.
type Problems []*Error

func (p Problems) Error() string {
	msgs := make([]string, len(p))
	for i, e := range p {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (p Problems) Unwrap() []error {
	out := make([]error, len(p))
	for i, e := range p {
		out[i] = e
	}
	return out
}

// Err returns p as an error, nil when empty.
func (p Problems) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}
