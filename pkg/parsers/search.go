package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"
)

type ClauseKind int

const (
	ClauseField ClauseKind = iota
	ClauseDate
	ClauseDateRange
	ClauseTime
	ClauseTimeRange
	ClauseDetail
	ClauseRecur
	ClauseDone
)

// Clause is one conjunct of a search predicate.
type Clause struct {
	Kind     ClauseKind
	Key      string
	Value    string
	HasValue bool
	Date     record.Date
	DateTo   record.Date
	Clock    record.Clock
	ClockTo  record.Clock
	Detail   string
	Recur    uint64
	Done     bool
}

// Predicate is a conjunction of clauses; there is no or.
type Predicate []Clause

// ParseSearch parses a search statement into a predicate. Clauses:
//
//	field key K [value V]   (key and value in either order)
//	date D | date from A to B
//	time T | time from A to B
//	detail S
//	recur N
//	finished | unfinished
//
// Search times never use meridiem inference; a bare hour is 24h.
func ParseSearch(statement string, now time.Time) (Predicate, error) {
	tokens := Scan(statement)
	if len(tokens) == 0 {
		return nil, terrors.ErrNoArgsProvided
	}

	var pred Predicate
	i := 0
	next := func(arg string) (string, error) {
		i++
		if i >= len(tokens) {
			return "", terrors.ErrorArgNotProvided(arg)
		}
		return tokens[i], nil
	}

	for i < len(tokens) {
		switch strings.ToLower(tokens[i]) {
		case "field":
			clause := Clause{Kind: ClauseField}
			hasKey := false
			i++
			for i < len(tokens) {
				kw := strings.ToLower(tokens[i])
				if kw != "key" && kw != "value" {
					break
				}
				if i+1 >= len(tokens) {
					return nil, terrors.ErrorArgNotProvided(kw)
				}
				if kw == "key" {
					clause.Key, hasKey = tokens[i+1], true
				} else {
					clause.Value, clause.HasValue = tokens[i+1], true
				}
				i += 2
			}
			if !hasKey {
				return nil, terrors.ErrorArgNotProvided("key")
			}
			pred = append(pred, clause)
		case "date":
			tok, err := next("date")
			if err != nil {
				return nil, err
			}
			if foldEq(tok, "from") {
				a, b, err := parseRange(next, ResolveDate, now)
				if err != nil {
					return nil, err
				}
				if b.Compare(a) < 0 {
					return nil, fmt.Errorf("%w: date %s to %s", terrors.ErrAmbiguousRange, a, b)
				}
				pred = append(pred, Clause{Kind: ClauseDateRange, Date: a, DateTo: b})
				i++
				continue
			}
			d, err := ResolveDate(tok, now)
			if err != nil {
				return nil, terrors.ErrorArgParse(tok, err)
			}
			pred = append(pred, Clause{Kind: ClauseDate, Date: d})
			i++
		case "time":
			tok, err := next("time")
			if err != nil {
				return nil, err
			}
			resolve := func(tok string, now time.Time) (record.Clock, error) {
				return ResolveTime(tok, false, now)
			}
			if foldEq(tok, "from") {
				a, b, err := parseRange(next, resolve, now)
				if err != nil {
					return nil, err
				}
				if b.Compare(a) < 0 {
					return nil, fmt.Errorf("%w: time %s to %s", terrors.ErrAmbiguousRange, a, b)
				}
				pred = append(pred, Clause{Kind: ClauseTimeRange, Clock: a, ClockTo: b})
				i++
				continue
			}
			c, err := resolve(tok, now)
			if err != nil {
				return nil, terrors.ErrorArgParse(tok, err)
			}
			pred = append(pred, Clause{Kind: ClauseTime, Clock: c})
			i++
		case "detail":
			tok, err := next("detail")
			if err != nil {
				return nil, err
			}
			pred = append(pred, Clause{Kind: ClauseDetail, Detail: tok})
			i++
		case "recur":
			tok, err := next("recur")
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseUint(tok, 10, 64)
			if err != nil {
				return nil, terrors.ErrorArgParse(tok, err)
			}
			pred = append(pred, Clause{Kind: ClauseRecur, Recur: n})
			i++
		case "finished":
			pred = append(pred, Clause{Kind: ClauseDone, Done: true})
			i++
		case "unfinished":
			pred = append(pred, Clause{Kind: ClauseDone, Done: false})
			i++
		default:
			return nil, fmt.Errorf("%w: %q", terrors.ErrUnknownSearchTerm, tokens[i])
		}
	}
	return pred, nil
}

// parseRange consumes `A to B` after a from keyword.
func parseRange[T any](next func(string) (string, error), resolve func(string, time.Time) (T, error), now time.Time) (a, b T, err error) {
	tok, err := next("from")
	if err != nil {
		return a, b, err
	}
	if a, err = resolve(tok, now); err != nil {
		return a, b, terrors.ErrorArgParse(tok, err)
	}
	if tok, err = next("to"); err != nil {
		return a, b, err
	}
	if !foldEq(tok, "to") {
		return a, b, fmt.Errorf("%w: expected to, got %q", terrors.ErrParse, tok)
	}
	if tok, err = next("to"); err != nil {
		return a, b, err
	}
	if b, err = resolve(tok, now); err != nil {
		return a, b, terrors.ErrorArgParse(tok, err)
	}
	return a, b, nil
}

// Match reports whether every clause of the predicate holds for the
// record.
func (p Predicate) Match(r *record.Record) bool {
	for _, c := range p {
		if !c.match(r) {
			return false
		}
	}
	return true
}

func (c Clause) match(r *record.Record) bool {
	switch c.Kind {
	case ClauseField:
		v, ok := r.Fields[c.Key]
		if !ok {
			return false
		}
		return !c.HasValue || v == c.Value
	case ClauseDate:
		return c.Date.Compare(r.Date) >= 0 && c.Date.Compare(r.EndDate()) <= 0
	case ClauseDateRange:
		return c.Date.Compare(r.EndDate()) <= 0 && c.DateTo.Compare(r.Date) >= 0
	case ClauseTime:
		return matchClock(r, c.Clock, c.Clock)
	case ClauseTimeRange:
		return matchClock(r, c.Clock, c.ClockTo)
	case ClauseDetail:
		return strings.Contains(strings.ToLower(r.Detail), strings.ToLower(c.Detail))
	case ClauseRecur:
		return r.RecurrenceKey != nil && *r.RecurrenceKey == c.Recur
	case ClauseDone:
		return r.Completed == c.Done
	default:
		return false
	}
}

// matchClock intersects [a, b] with the record's own time range.
// All-day records span the whole day; schedules that cross midnight
// extend their stop past 24h.
func matchClock(r *record.Record, a, b record.Clock) bool {
	lo, hi := clockSecs(a), clockSecs(b)
	switch r.Typ {
	case record.TypeAllDay:
		return true
	case record.TypeAt:
		at := clockSecs(*r.At)
		return lo <= at && at <= hi
	case record.TypeSchedule:
		start := clockSecs(r.Scheduled.Start)
		stop := clockSecs(r.Scheduled.Stop)
		if stop < start {
			stop += 24 * 3600
		}
		return lo <= stop && hi >= start
	default:
		return false
	}
}

func clockSecs(c record.Clock) int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// Filter keeps the records the predicate matches, preserving order.
func (p Predicate) Filter(records []*record.Record) []*record.Record {
	var out []*record.Record
	for _, r := range records {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
