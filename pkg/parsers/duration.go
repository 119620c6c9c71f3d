package parsers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"
)

// span unit slots in grammar order. A bare m is ambiguous: it means
// months only when a coarser unit (w, d or h) follows it, minutes
// otherwise, so "2m1d" is two months and a day but "30m" and "1h30m"
// are minutes.
const (
	slotYears = iota
	slotMonths
	slotWeeks
	slotDays
	slotHours
	slotMinutes
	slotSeconds
)

// ParseSpan parses a compound duration token such as "2m1w", "1h30m"
// or "-1d12h". Units must appear at most once and in coarse-to-fine
// order.
func ParseSpan(tok string) (record.Span, error) {
	var out record.Span
	s := strings.ToLower(tok)
	if s == "" {
		return out, fmt.Errorf("%w: empty token", terrors.ErrMalformedDuration)
	}
	switch s[0] {
	case '-':
		out.Neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	slot := slotYears
	units := 0
	digits := ""
	for idx, r := range s {
		if r >= '0' && r <= '9' {
			digits += string(r)
			continue
		}
		if digits == "" {
			return record.Span{}, fmt.Errorf("%w: %q: unit %q has no value", terrors.ErrMalformedDuration, tok, r)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return record.Span{}, fmt.Errorf("%w: %q: %w", terrors.ErrMalformedDuration, tok, err)
		}
		digits = ""
		units++
		switch r {
		case 'y':
			if slot > slotYears {
				return record.Span{}, errUnitOrder(tok, r)
			}
			out.Years = n
			slot = slotMonths
		case 'm':
			if strings.ContainsAny(s[idx+1:], "wdh") {
				if slot > slotMonths {
					return record.Span{}, errUnitOrder(tok, r)
				}
				out.Months = n
				slot = slotWeeks
			} else {
				if slot > slotMinutes {
					return record.Span{}, errUnitOrder(tok, r)
				}
				out.Minutes = n
				slot = slotSeconds
			}
		case 'w':
			if slot > slotWeeks {
				return record.Span{}, errUnitOrder(tok, r)
			}
			out.Weeks = n
			slot = slotDays
		case 'd':
			if slot > slotDays {
				return record.Span{}, errUnitOrder(tok, r)
			}
			out.Days = n
			slot = slotHours
		case 'h':
			if slot > slotHours {
				return record.Span{}, errUnitOrder(tok, r)
			}
			out.Hours = n
			slot = slotMinutes
		case 's':
			if slot > slotSeconds {
				return record.Span{}, errUnitOrder(tok, r)
			}
			out.Seconds = n
			slot = slotSeconds + 1
		default:
			return record.Span{}, fmt.Errorf("%w: %q: unknown unit %q", terrors.ErrMalformedDuration, tok, r)
		}
	}
	if digits != "" {
		return record.Span{}, fmt.Errorf("%w: %q: trailing value %q has no unit", terrors.ErrMalformedDuration, tok, digits)
	}
	if units == 0 {
		return record.Span{}, fmt.Errorf("%w: %q: no units", terrors.ErrMalformedDuration, tok)
	}
	return out, nil
}

func errUnitOrder(tok string, unit rune) error {
	return fmt.Errorf("%w: %q: unit %q repeated or out of order", terrors.ErrMalformedDuration, tok, unit)
}
