package periodsearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/period"
	"github.com/Paintersrp/periodsearch/internal/prompt"
	"github.com/Paintersrp/periodsearch/internal/terms"
)

// EmptyCorpusError means no calendar note falls inside the period, so no
// search was run.
type EmptyCorpusError struct {
	Interval period.Interval
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("no calendar notes found for %s", e.Interval.Describe())
}

// Kind classifies pipeline failures for the command layer.
type Kind int

const (
	KindNone Kind = iota
	KindDateFormat
	KindValidation
	KindEmptyCorpus
	KindDestinationWrite
	KindUnrecognizedDestination
	KindCancelled
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindDateFormat:
		return "date format"
	case KindValidation:
		return "validation"
	case KindEmptyCorpus:
		return "empty corpus"
	case KindDestinationWrite:
		return "destination write"
	case KindUnrecognizedDestination:
		return "unrecognised destination"
	case KindCancelled:
		return "cancelled"
	default:
		return "other"
	}
}

// Classify maps err onto its Kind.
func Classify(err error) Kind {
	var (
		dateErr     *period.DateFormatError
		termErr     *terms.ValidationError
		emptyErr    *EmptyCorpusError
		writeErr    *destination.DestinationWriteError
		unknownDest *destination.UnrecognizedDestinationError
	)

	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, prompt.ErrCancelled), errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.As(err, &dateErr):
		return KindDateFormat
	case errors.As(err, &termErr):
		return KindValidation
	case errors.As(err, &emptyErr):
		return KindEmptyCorpus
	case errors.As(err, &writeErr):
		return KindDestinationWrite
	case errors.As(err, &unknownDest):
		return KindUnrecognizedDestination
	default:
		return KindOther
	}
}
