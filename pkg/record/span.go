package record

import (
	"strconv"
	"strings"
	"time"
)

// Span is a unit-decomposed duration. Variable units (years, months)
// are kept apart from the fixed ones so that stepping a calendar date
// by a month lands on the same day of the next month instead of adding
// some fixed number of hours. Equality is component-wise: 1d and 24h
// are different spans.
type Span struct {
	Neg     bool `yaml:"neg,omitempty" json:"neg,omitempty"`
	Years   int  `yaml:"years,omitempty" json:"years,omitempty"`
	Months  int  `yaml:"months,omitempty" json:"months,omitempty"`
	Weeks   int  `yaml:"weeks,omitempty" json:"weeks,omitempty"`
	Days    int  `yaml:"days,omitempty" json:"days,omitempty"`
	Hours   int  `yaml:"hours,omitempty" json:"hours,omitempty"`
	Minutes int  `yaml:"minutes,omitempty" json:"minutes,omitempty"`
	Seconds int  `yaml:"seconds,omitempty" json:"seconds,omitempty"`
}

func (s Span) IsZero() bool {
	return s.Years == 0 && s.Months == 0 && s.Weeks == 0 &&
		s.Days == 0 && s.Hours == 0 && s.Minutes == 0 && s.Seconds == 0
}

func (s Span) months() int {
	return s.Years*12 + s.Months
}

// Fixed is the clock-arithmetic part of the span, everything below
// months.
func (s Span) Fixed() time.Duration {
	d := time.Duration(s.Weeks*7+s.Days)*24*time.Hour +
		time.Duration(s.Hours)*time.Hour +
		time.Duration(s.Minutes)*time.Minute +
		time.Duration(s.Seconds)*time.Second
	return d
}

// DaysIn is the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthsClamped steps year/month arithmetically and clamps the
// day-of-month to the target month. The clamp never compounds: the
// requested day is always origin's day, so Jan 31 stepped monthly
// visits Feb 28 then Mar 31.
func addMonthsClamped(origin time.Time, months int) time.Time {
	y := origin.Year()
	m := int(origin.Month()) - 1 + months
	y += m / 12
	m %= 12
	if m < 0 {
		m += 12
		y--
	}
	month := time.Month(m + 1)
	day := origin.Day()
	if max := DaysIn(y, month); day > max {
		day = max
	}
	return time.Date(y, month, day,
		origin.Hour(), origin.Minute(), origin.Second(), 0, origin.Location())
}

// Step advances origin by n whole intervals. The month component is
// applied in one jump from origin so that the day-of-month clamp is
// computed against origin's day every time.
func (s Span) Step(origin time.Time, n int) time.Time {
	if s.Neg {
		n = -n
	}
	out := origin
	if mo := s.months(); mo != 0 {
		out = addMonthsClamped(out, mo*n)
	}
	return out.Add(time.Duration(n) * s.Fixed())
}

// After is Step with n=1, the natural "origin plus this span".
func (s Span) After(origin time.Time) time.Time {
	return s.Step(origin, 1)
}

// Before subtracts the span from origin, used for notify leads.
func (s Span) Before(origin time.Time) time.Time {
	return s.Step(origin, -1)
}

// String renders the span in canonical unit order. An m unit reads
// back as months only when a coarser unit follows it, so a months
// component with nothing between it and the minutes slot gets a "0d"
// pad to keep the rendering re-parseable.
func (s Span) String() string {
	if s.IsZero() {
		return "0s"
	}
	var b strings.Builder
	if s.Neg {
		b.WriteByte('-')
	}
	emit := func(n int, unit string) {
		if n != 0 {
			b.WriteString(strconv.Itoa(n))
			b.WriteString(unit)
		}
	}
	emit(s.Years, "y")
	emit(s.Months, "m")
	if s.Months != 0 && s.Weeks == 0 && s.Days == 0 && s.Hours == 0 {
		b.WriteString("0d")
	}
	emit(s.Weeks, "w")
	emit(s.Days, "d")
	emit(s.Hours, "h")
	emit(s.Minutes, "m")
	emit(s.Seconds, "s")
	return b.String()
}
