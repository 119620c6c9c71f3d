package terrors

import (
	"errors"
	"fmt"
)

var (
	ErrArg            = errors.New("arg error")
	ErrNoArgsProvided = fmt.Errorf("%w: no args provided error", ErrArg)
	ErrParse          = errors.New("failed to parse error")
	ErrValue          = errors.New("value error")
	ErrNotFound       = errors.New("not found error")

	ErrMalformedDuration = fmt.Errorf("%w: malformed duration error", ErrParse)
	ErrUnparsableDate    = fmt.Errorf("%w: unparsable date error", ErrParse)
	ErrInvalidDate       = fmt.Errorf("%w: invalid date error", ErrParse)
	ErrInvalidTime       = fmt.Errorf("%w: invalid time error", ErrParse)
	ErrMissingShape      = fmt.Errorf("%w: missing shape error", ErrParse)
	ErrMissingDetail     = fmt.Errorf("%w: missing detail error", ErrParse)
	ErrUnknownSearchTerm = fmt.Errorf("%w: unknown search term error", ErrParse)
	ErrAmbiguousRange    = fmt.Errorf("%w: ambiguous range error", ErrParse)

	// ErrNonMonotonic means the stored anchor/sequence state of a
	// recurring record no longer agrees with its own interval. It is
	// fatal rather than recoverable.
	ErrNonMonotonic = errors.New("non-monotonic recurrence state error")
)

func ErrorArgNotProvided(field string) error {
	return fmt.Errorf("%w: arg '%s' not provided error", ErrArg, field)
}

func ErrorArgParse(arg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %w: arg %s", ErrArg, ErrParse, arg)
	}
	return fmt.Errorf("%w: %w: arg %s: %w", ErrArg, ErrParse, arg, err)
}
