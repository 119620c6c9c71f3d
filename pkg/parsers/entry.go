package parsers

import (
	"fmt"
	"strings"
	"time"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"
)

// Entry is the outcome of parsing one entry statement. Every is set
// when the statement opened with a recur clause; key assignment and
// template registration happen at the store.
type Entry struct {
	Record record.Record
	Every  *record.Span
}

// ParseEntry parses an entry statement:
//
//	[recur <span>] <date> <shape> [notify [me] <span>] <detail...>
//	shape := at <time> | from <time> [to|until] <time> | all day
//
// Parsing is strict left-to-right with no backtracking. A from/to pair
// whose stop precedes its start runs past midnight into the next day.
// Meridiem inference on bare times applies only when the date resolves
// to today and 24h mode is off.
func ParseEntry(statement string, now time.Time, use24h bool) (*Entry, error) {
	tokens := Scan(statement)
	if len(tokens) == 0 {
		return nil, terrors.ErrNoArgsProvided
	}

	var out Entry
	i := 0

	if foldEq(tokens[i], "recur") {
		i++
		if i >= len(tokens) {
			return nil, terrors.ErrorArgNotProvided("recur")
		}
		every, err := ParseSpan(tokens[i])
		if err != nil {
			return nil, terrors.ErrorArgParse(tokens[i], err)
		}
		out.Every = &every
		i++
	}

	if i >= len(tokens) {
		return nil, terrors.ErrorArgNotProvided("date")
	}
	date, err := ResolveDate(tokens[i], now)
	if err != nil {
		return nil, terrors.ErrorArgParse(tokens[i], err)
	}
	out.Record.Date = date
	i++

	infer := date == record.DateOf(now) && !use24h

	if i >= len(tokens) {
		return nil, fmt.Errorf("%w: expected at, from or all day", terrors.ErrMissingShape)
	}
	switch strings.ToLower(tokens[i]) {
	case "at":
		i++
		if i >= len(tokens) {
			return nil, terrors.ErrorArgNotProvided("at")
		}
		c, err := ResolveTime(tokens[i], infer, now)
		if err != nil {
			return nil, terrors.ErrorArgParse(tokens[i], err)
		}
		out.Record.SetAt(c)
		i++
	case "from":
		i++
		if i >= len(tokens) {
			return nil, terrors.ErrorArgNotProvided("from")
		}
		start, err := ResolveTime(tokens[i], infer, now)
		if err != nil {
			return nil, terrors.ErrorArgParse(tokens[i], err)
		}
		i++
		if i < len(tokens) && (foldEq(tokens[i], "to") || foldEq(tokens[i], "until")) {
			i++
		}
		if i >= len(tokens) {
			return nil, terrors.ErrorArgNotProvided("to")
		}
		stop, err := ResolveTime(tokens[i], infer, now)
		if err != nil {
			return nil, terrors.ErrorArgParse(tokens[i], err)
		}
		out.Record.SetScheduled(record.ScheduleRange{Start: start, Stop: stop})
		i++
	case "all":
		i++
		if i >= len(tokens) || !foldEq(tokens[i], "day") {
			return nil, fmt.Errorf("%w: expected day after all", terrors.ErrMissingShape)
		}
		out.Record.SetAllDay()
		i++
	default:
		return nil, fmt.Errorf("%w: %q is not a shape keyword", terrors.ErrMissingShape, tokens[i])
	}

	if i < len(tokens) && foldEq(tokens[i], "notify") {
		i++
		if i < len(tokens) && foldEq(tokens[i], "me") {
			i++
		}
		if i >= len(tokens) {
			return nil, terrors.ErrorArgNotProvided("notify")
		}
		lead, err := ParseSpan(tokens[i])
		if err != nil {
			return nil, terrors.ErrorArgParse(tokens[i], err)
		}
		out.Record.Notify = &lead
		i++
	}

	if i >= len(tokens) {
		return nil, terrors.ErrMissingDetail
	}
	out.Record.Detail = strings.Join(tokens[i:], " ")
	return &out, nil
}
