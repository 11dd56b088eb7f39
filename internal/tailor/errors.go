package tailor

import (
	"errors"

	"github.com/spigell/resume-tailor/internal/ai"
	"github.com/spigell/resume-tailor/internal/document"
)

// ErrorKind names the class of a failed tailoring attempt in reports.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NotFound"
	KindInvalidDocument ErrorKind = "InvalidDocument"
	KindIO              ErrorKind = "IOError"
	KindProviders       ErrorKind = "ProvidersExhausted"
	KindUnknown         ErrorKind = "Unknown"
)

// Kind classifies an error returned by Pipeline.TailorAndSave.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, document.ErrNotFound):
		return KindNotFound
	case errors.Is(err, document.ErrEmpty), errors.Is(err, document.ErrFormat):
		return KindInvalidDocument
	case errors.Is(err, document.ErrWrite):
		return KindIO
	case errors.Is(err, ai.ErrChainExhausted):
		return KindProviders
	default:
		return KindUnknown
	}
}
