package record

import (
	"fmt"
	"strings"

	"github.com/erikh/saturn/pkg/terrors"
	"github.com/teambition/rrule-go"
)

// RRule renders the recurrence interval as an iCalendar RRULE
// property. Only single-unit day-or-coarser intervals have an RRULE
// frequency; mixed or sub-day intervals report ErrValue.
func (r *RecurringRecord) RRule() (string, error) {
	opt, err := r.roption()
	if err != nil {
		return "", err
	}
	return "RRULE:" + opt.RRuleString(), nil
}

func (r *RecurringRecord) roption() (*rrule.ROption, error) {
	e := r.Every
	if e.Neg || e.Hours != 0 || e.Minutes != 0 || e.Seconds != 0 {
		return nil, fmt.Errorf("%w: interval %s has no RRULE frequency", terrors.ErrValue, e)
	}
	var (
		freq     rrule.Frequency
		interval int
	)
	switch {
	case e.Years != 0 && e.Months == 0 && e.Weeks == 0 && e.Days == 0:
		freq, interval = rrule.YEARLY, e.Years
	case e.Months != 0 && e.Years == 0 && e.Weeks == 0 && e.Days == 0:
		freq, interval = rrule.MONTHLY, e.Months
	case e.Weeks != 0 && e.Years == 0 && e.Months == 0 && e.Days == 0:
		freq, interval = rrule.WEEKLY, e.Weeks
	case e.Days != 0 && e.Years == 0 && e.Months == 0 && e.Weeks == 0:
		freq, interval = rrule.DAILY, e.Days
	default:
		return nil, fmt.Errorf("%w: interval %s has no RRULE frequency", terrors.ErrValue, e)
	}
	return &rrule.ROption{Freq: freq, Interval: interval}, nil
}

// RecurrenceFromRRule builds a recurring record from an RRULE
// property, mapping the frequency back onto an interval.
func RecurrenceFromRRule(key uint64, template Record, s string) (*RecurringRecord, error) {
	opt, err := rrule.StrToROption(strings.TrimPrefix(s, "RRULE:"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", terrors.ErrParse, err)
	}
	interval := opt.Interval
	if interval == 0 {
		interval = 1
	}
	var every Span
	switch opt.Freq {
	case rrule.YEARLY:
		every.Years = interval
	case rrule.MONTHLY:
		every.Months = interval
	case rrule.WEEKLY:
		every.Weeks = interval
	case rrule.DAILY:
		every.Days = interval
	default:
		return nil, fmt.Errorf("%w: unsupported RRULE frequency in %q", terrors.ErrValue, s)
	}
	return NewRecurring(key, template, every)
}
