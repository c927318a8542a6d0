package pastebin

import (
	"fmt"
	"net/url"
)

// MaxPasteSize is the largest paste the service accepts, in bytes.
const MaxPasteSize = 512000

// Form field names understood by the paste API.
const (
	fieldOption     = "api_option"
	fieldDevKey     = "api_dev_key"
	fieldCode       = "api_paste_code"
	fieldPrivate    = "api_paste_private"
	fieldName       = "api_paste_name"
	fieldExpireDate = "api_paste_expire_date"
	fieldFormat     = "api_paste_format"

	optionPaste = "paste"
)

// pasteAttrs holds the optional attributes of a paste. A nil field is
// left out of the request and the service applies its default.
type pasteAttrs struct {
	name       *string
	visibility *VisibilityLevel
	format     *string
	expiration *ExpirationDate
}

// PasteOption sets an optional paste attribute.
type PasteOption func(*pasteAttrs)

// WithName sets the paste title. The value is sent verbatim.
func WithName(name string) PasteOption {
	return func(a *pasteAttrs) {
		a.name = &name
	}
}

// WithVisibility sets whether the paste is public or unlisted.
func WithVisibility(v VisibilityLevel) PasteOption {
	return func(a *pasteAttrs) {
		a.visibility = &v
	}
}

// WithFormat sets the syntax highlighting format, e.g. "go" or "rust".
// It is not checked locally.
func WithFormat(format string) PasteOption {
	return func(a *pasteAttrs) {
		a.format = &format
	}
}

// WithExpiration sets how long the service keeps the paste.
func WithExpiration(e ExpirationDate) PasteOption {
	return func(a *pasteAttrs) {
		a.expiration = &e
	}
}

// BuildRequest validates content and assembles the form payload for a
// paste creation call. It fails with ErrPasteTooBig or
// ErrEmptyPasteContent, in that order, before any option is applied.
func BuildRequest(apiKey, content string, opts ...PasteOption) (url.Values, error) {
	if len(content) > MaxPasteSize {
		return nil, &Error{
			Code:    ErrPasteTooBig,
			Message: fmt.Sprintf("content exceeds maximum size of %d bytes", MaxPasteSize),
		}
	}
	if len(content) == 0 {
		return nil, &Error{Code: ErrEmptyPasteContent, Message: "content cannot be empty"}
	}

	var attrs pasteAttrs
	for _, opt := range opts {
		opt(&attrs)
	}

	form := url.Values{}
	form.Set(fieldOption, optionPaste)
	form.Set(fieldDevKey, apiKey)
	form.Set(fieldCode, content)

	if attrs.visibility != nil {
		form.Set(fieldPrivate, attrs.visibility.Code())
	}
	if attrs.name != nil {
		form.Set(fieldName, *attrs.name)
	}
	if attrs.expiration != nil {
		form.Set(fieldExpireDate, attrs.expiration.Code())
	}
	if attrs.format != nil {
		form.Set(fieldFormat, *attrs.format)
	}
	return form, nil
}
