package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingContainer indicates the trigger carried no container identifier.
	ErrMissingContainer = errors.New("container identifier is required")

	// ErrMissingKey indicates the trigger carried no object key.
	ErrMissingKey = errors.New("object key is required")

	// ErrNoRecords indicates a notification without any records.
	ErrNoRecords = errors.New("notification contains no records")

	// ErrInvalidEncoding indicates the object is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")

	// ErrNoHeaderRow indicates the object contains no rows at all.
	ErrNoHeaderRow = errors.New("no header row")

	// ErrUnterminatedQuote indicates a quoted field still open at the end of
	// the content.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
)

// Kind classifies where in the pipeline a failure originated.
type Kind int

const (
	KindInternal    Kind = iota // Unexpected failure, including recovered panics.
	KindInput                   // Missing or malformed trigger reference.
	KindRetrieval               // Object fetch failed.
	KindDecoding                // Object is not valid text.
	KindParse                   // Missing header or malformed delimited structure.
	KindPersistence             // Record store write failed.
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindRetrieval:
		return "retrieval"
	case KindDecoding:
		return "decoding"
	case KindParse:
		return "parse"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// ProcessingError is returned by MetadataExtractor.Process for every failure.
type ProcessingError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func newProcessingError(kind Kind, op string, err error) error {
	return &ProcessingError{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err, or KindInternal when err is not a
// ProcessingError.
func KindOf(err error) Kind {
	var perr *ProcessingError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindInternal
}
