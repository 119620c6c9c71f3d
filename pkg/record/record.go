package record

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Date is a calendar day without a time component.
type Date struct {
	Year  int        `yaml:"year" json:"year"`
	Month time.Month `yaml:"month" json:"month"`
	Day   int        `yaml:"day" json:"day"`
}

func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time anchors the date at midnight local time.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int `yaml:"hour" json:"hour"`
	Minute int `yaml:"minute" json:"minute"`
	Second int `yaml:"second" json:"second"`
}

func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (c Clock) Compare(other Clock) int {
	switch {
	case c.Hour != other.Hour:
		return cmpInt(c.Hour, other.Hour)
	case c.Minute != other.Minute:
		return cmpInt(c.Minute, other.Minute)
	default:
		return cmpInt(c.Second, other.Second)
	}
}

func (c Clock) String() string {
	if c.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Type is the shape of a record's time information.
type Type int

const (
	TypeAt Type = iota
	TypeSchedule
	TypeAllDay
)

func (t Type) String() string {
	switch t {
	case TypeAt:
		return "at"
	case TypeSchedule:
		return "schedule"
	case TypeAllDay:
		return "all day"
	default:
		return "unknown"
	}
}

// ScheduleRange is the start/stop pair of a scheduled record. Stop
// earlier than Start means the schedule runs past midnight into the
// next day.
type ScheduleRange struct {
	Start Clock `yaml:"start" json:"start"`
	Stop  Clock `yaml:"stop" json:"stop"`
}

func (s ScheduleRange) CrossesMidnight() bool {
	return s.Stop.Compare(s.Start) < 0
}

// Record is a single calendar item.
type Record struct {
	PrimaryKey    uint64            `yaml:"primary_key" json:"primary_key"`
	RecurrenceKey *uint64           `yaml:"recurrence_key,omitempty" json:"recurrence_key,omitempty"`
	InternalKey   string            `yaml:"internal_key,omitempty" json:"internal_key,omitempty"`
	Seq           int               `yaml:"seq,omitempty" json:"seq,omitempty"`
	Date          Date              `yaml:"date" json:"date"`
	Typ           Type              `yaml:"type" json:"type"`
	At            *Clock            `yaml:"at,omitempty" json:"at,omitempty"`
	Scheduled     *ScheduleRange    `yaml:"scheduled,omitempty" json:"scheduled,omitempty"`
	Detail        string            `yaml:"detail" json:"detail"`
	Fields        map[string]string `yaml:"fields,omitempty" json:"fields,omitempty"`
	Notify        *Span             `yaml:"notify,omitempty" json:"notify,omitempty"`
	Notified      bool              `yaml:"notified,omitempty" json:"notified,omitempty"`
	Completed     bool              `yaml:"completed,omitempty" json:"completed,omitempty"`
}

func (r *Record) SetAt(c Clock) *Record {
	r.Typ = TypeAt
	r.At = &c
	r.Scheduled = nil
	return r
}

func (r *Record) SetScheduled(s ScheduleRange) *Record {
	r.Typ = TypeSchedule
	r.Scheduled = &s
	r.At = nil
	return r
}

func (r *Record) SetAllDay() *Record {
	r.Typ = TypeAllDay
	r.At = nil
	r.Scheduled = nil
	return r
}

// StartClock is the clock the record begins at; all-day records begin
// at midnight.
func (r *Record) StartClock() Clock {
	switch r.Typ {
	case TypeAt:
		return *r.At
	case TypeSchedule:
		return r.Scheduled.Start
	default:
		return Clock{}
	}
}

// StartTime is the record's start as an instant in local time.
func (r *Record) StartTime() time.Time {
	c := r.StartClock()
	return time.Date(r.Date.Year, r.Date.Month, r.Date.Day,
		c.Hour, c.Minute, c.Second, 0, time.Local)
}

// EndDate is the date the record finishes on, one past Date when a
// schedule crosses midnight.
func (r *Record) EndDate() Date {
	if r.Typ == TypeSchedule && r.Scheduled.CrossesMidnight() {
		return r.Date.AddDays(1)
	}
	return r.Date
}

func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", r.PrimaryKey, r.Date)
	switch r.Typ {
	case TypeAt:
		fmt.Fprintf(&b, " at %s", r.At)
	case TypeSchedule:
		fmt.Fprintf(&b, " %s - %s", r.Scheduled.Start, r.Scheduled.Stop)
	case TypeAllDay:
		b.WriteString(" all day")
	}
	fmt.Fprintf(&b, ": %s", r.Detail)
	if len(r.Fields) > 0 {
		keys := make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " [%s=%s]", k, r.Fields[k])
		}
	}
	if r.Notify != nil {
		fmt.Fprintf(&b, " (notify %s before)", r.Notify)
	}
	if r.Completed {
		b.WriteString(" (done)")
	}
	return b.String()
}

// SortRecords orders by date, then start clock, then primary key.
func SortRecords(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		if c := a.StartClock().Compare(b.StartClock()); c != 0 {
			return c < 0
		}
		return a.PrimaryKey < b.PrimaryKey
	})
}
