// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure.
type Kind string

const (
	// KindTransport covers network errors, timeouts and cancellations.
	KindTransport Kind = "transport"
	// KindStatus is a non-2xx response.
	KindStatus Kind = "status"
	// KindMalformed is a page missing the expected title or content structure.
	KindMalformed Kind = "malformed"
)

// ErrMalformedPage is wrapped by every KindMalformed error.
var ErrMalformedPage = errors.New("malformed page")

// Error describes why a single page could not be retrieved. Crawling and
// expansion skip the page and continue.
type Error struct {
	URL    string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError returns err as a *Error, wrapping foreign errors as transport failures.
func AsError(url string, err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{URL: url, Kind: KindTransport, Err: err}
}

func malformed(url, reason string) *Error {
	return &Error{URL: url, Kind: KindMalformed, Err: fmt.Errorf("%w: %s", ErrMalformedPage, reason)}
}
