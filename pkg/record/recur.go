package record

import (
	"fmt"
	"time"

	"github.com/erikh/saturn/pkg/terrors"
)

// RecurringRecord is the template plus repetition state of a recurring
// calendar item. Seq counts the occurrences materialized so far (the
// template itself is occurrence 0) and Anchor is the start instant of
// the last one, so the two must always agree with the template origin.
type RecurringRecord struct {
	Key      uint64    `yaml:"key" json:"key"`
	Template Record    `yaml:"template" json:"template"`
	Every    Span      `yaml:"every" json:"every"`
	Anchor   time.Time `yaml:"anchor" json:"anchor"`
	Seq      int       `yaml:"seq" json:"seq"`
}

func NewRecurring(key uint64, template Record, every Span) (*RecurringRecord, error) {
	if every.IsZero() || every.Neg {
		return nil, fmt.Errorf("%w: recurrence interval must be positive: %s", terrors.ErrValue, every)
	}
	template.RecurrenceKey = &key
	template.Seq = 0
	return &RecurringRecord{
		Key:      key,
		Template: template,
		Every:    every,
		Anchor:   template.StartTime(),
		Seq:      0,
	}, nil
}

// Nominal is the start instant of occurrence k, derived from the
// template origin every time so day-of-month clamping never compounds.
func (r *RecurringRecord) Nominal(k int) time.Time {
	return r.Every.Step(r.Template.StartTime(), k)
}

func (r *RecurringRecord) validate() error {
	if r.Every.IsZero() || r.Every.Neg {
		return fmt.Errorf("%w: recurrence %d has interval %s", terrors.ErrNonMonotonic, r.Key, r.Every)
	}
	if r.Seq < 0 || !r.Anchor.Equal(r.Nominal(r.Seq)) {
		return fmt.Errorf("%w: recurrence %d anchor %s does not match sequence %d",
			terrors.ErrNonMonotonic, r.Key, r.Anchor, r.Seq)
	}
	return nil
}

// MaterializeDue emits one provisional occurrence per elapsed interval
// whose nominal start is at or before now. It does not mutate r;
// committing the occurrences is the caller's job, paired with Advance.
func (r *RecurringRecord) MaterializeDue(now time.Time) ([]Record, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	var out []Record
	for k := r.Seq + 1; ; k++ {
		start := r.Nominal(k)
		if start.After(now) {
			break
		}
		out = append(out, r.occurrence(k, start))
	}
	return out, nil
}

// Advance moves the anchor/sequence state past n freshly committed
// occurrences.
func (r *RecurringRecord) Advance(n int) {
	r.Seq += n
	r.Anchor = r.Nominal(r.Seq)
}

func (r *RecurringRecord) occurrence(k int, start time.Time) Record {
	rec := r.Template
	rec.PrimaryKey = 0
	rec.InternalKey = ""
	rec.Seq = k
	rec.Notified = false
	rec.Completed = false
	rec.Date = DateOf(start)
	if len(r.Template.Fields) > 0 {
		rec.Fields = make(map[string]string, len(r.Template.Fields))
		for key, v := range r.Template.Fields {
			rec.Fields[key] = v
		}
	}
	switch r.Template.Typ {
	case TypeAt:
		rec.SetAt(ClockOf(start))
	case TypeSchedule:
		dur := r.scheduleDuration()
		rec.SetScheduled(ScheduleRange{
			Start: ClockOf(start),
			Stop:  ClockOf(start.Add(dur)),
		})
	case TypeAllDay:
		rec.SetAllDay()
	}
	return rec
}

// scheduleDuration is the template's stop minus start, counting a stop
// earlier than its start as running into the next day.
func (r *RecurringRecord) scheduleDuration() time.Duration {
	s := r.Template.Scheduled
	start := time.Duration(s.Start.Hour)*time.Hour +
		time.Duration(s.Start.Minute)*time.Minute +
		time.Duration(s.Start.Second)*time.Second
	stop := time.Duration(s.Stop.Hour)*time.Hour +
		time.Duration(s.Stop.Minute)*time.Minute +
		time.Duration(s.Stop.Second)*time.Second
	if stop < start {
		stop += 24 * time.Hour
	}
	return stop - start
}
