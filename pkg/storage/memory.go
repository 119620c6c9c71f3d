package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/erikh/saturn/pkg/parsers"
	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"

	"github.com/google/uuid"
)

// MemoryDB is the in-memory calendar store. Records are bucketed by
// ISO date; key counters only ever move forward. Read paths overlay
// provisional occurrences of recurring records without touching state,
// mutating paths commit every due occurrence before doing their own
// work, so two reads in a row see the same provisional set and a
// commit assigns keys exactly once.
type MemoryDB struct {
	PrimaryKey    uint64                      `yaml:"primary_key" json:"primary_key"`
	RecurrenceKey uint64                      `yaml:"recurrence_key" json:"recurrence_key"`
	Records       map[string][]*record.Record `yaml:"records" json:"records"`
	Recurring     []*record.RecurringRecord   `yaml:"recurring,omitempty" json:"recurring,omitempty"`
}

func New() *MemoryDB {
	return &MemoryDB{Records: map[string][]*record.Record{}}
}

func (m *MemoryDB) NextKey() uint64 {
	m.PrimaryKey++
	return m.PrimaryKey
}

func (m *MemoryDB) NextRecurrenceKey() uint64 {
	m.RecurrenceKey++
	return m.RecurrenceKey
}

func (m *MemoryDB) insert(r *record.Record) {
	key := r.Date.String()
	m.Records[key] = append(m.Records[key], r)
	record.SortRecords(m.Records[key])
}

// Insert commits due recurrences, then stores the record under a fresh
// primary key.
func (m *MemoryDB) Insert(r record.Record, now time.Time) (uint64, error) {
	if err := m.UpdateRecurrence(now); err != nil {
		return 0, err
	}
	r.PrimaryKey = m.NextKey()
	if r.InternalKey == "" {
		r.InternalKey = uuid.NewString()
	}
	m.insert(&r)
	return r.PrimaryKey, nil
}

// InsertRecurrence registers a recurring record and stores its
// template as occurrence zero.
func (m *MemoryDB) InsertRecurrence(template record.Record, every record.Span, now time.Time) (uint64, error) {
	if err := m.UpdateRecurrence(now); err != nil {
		return 0, err
	}
	def, err := record.NewRecurring(m.NextRecurrenceKey(), template, every)
	if err != nil {
		m.RecurrenceKey--
		return 0, err
	}
	first := def.Template
	first.PrimaryKey = m.NextKey()
	first.InternalKey = uuid.NewString()
	m.insert(&first)
	m.Recurring = append(m.Recurring, def)
	return def.Key, nil
}

// UpdateRecurrence commits every due occurrence of every recurring
// record: primary keys in ascending sequence order, a uuid internal
// key each, and the anchor advanced past them.
func (m *MemoryDB) UpdateRecurrence(now time.Time) error {
	for _, def := range m.Recurring {
		due, err := def.MaterializeDue(now)
		if err != nil {
			return err
		}
		for i := range due {
			due[i].PrimaryKey = m.NextKey()
			due[i].InternalKey = uuid.NewString()
			m.insert(&due[i])
		}
		def.Advance(len(due))
	}
	return nil
}

// Provisional materializes the due occurrences of every recurring
// record without committing them.
func (m *MemoryDB) Provisional(now time.Time) ([]*record.Record, error) {
	var out []*record.Record
	for _, def := range m.Recurring {
		due, err := def.MaterializeDue(now)
		if err != nil {
			return nil, err
		}
		for i := range due {
			out = append(out, &due[i])
		}
	}
	return out, nil
}

// all returns every committed record plus the provisional overlay,
// sorted.
func (m *MemoryDB) all(now time.Time) ([]*record.Record, error) {
	var out []*record.Record
	keys := make([]string, 0, len(m.Records))
	for k := range m.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, m.Records[k]...)
	}
	prov, err := m.Provisional(now)
	if err != nil {
		return nil, err
	}
	out = append(out, prov...)
	record.SortRecords(out)
	return out, nil
}

// ListAll lists every record in date order.
func (m *MemoryDB) ListAll(now time.Time, includeCompleted bool) ([]*record.Record, error) {
	records, err := m.all(now)
	if err != nil {
		return nil, err
	}
	return filterCompleted(records, includeCompleted), nil
}

// ListDay lists the records touching the given date, midnight-crossing
// schedules from the day before included.
func (m *MemoryDB) ListDay(date record.Date, now time.Time, includeCompleted bool) ([]*record.Record, error) {
	records, err := m.all(now)
	if err != nil {
		return nil, err
	}
	var out []*record.Record
	for _, r := range records {
		if r.Date.Compare(date) <= 0 && r.EndDate().Compare(date) >= 0 {
			out = append(out, r)
		}
	}
	return filterCompleted(out, includeCompleted), nil
}

func (m *MemoryDB) ListToday(now time.Time, includeCompleted bool) ([]*record.Record, error) {
	return m.ListDay(record.DateOf(now), now, includeCompleted)
}

func filterCompleted(records []*record.Record, includeCompleted bool) []*record.Record {
	if includeCompleted {
		return records
	}
	var out []*record.Record
	for _, r := range records {
		if !r.Completed {
			out = append(out, r)
		}
	}
	return out
}

// EventsNow lists what deserves attention around now: at-items within
// the well on either side, schedules running with the well as margin,
// all-day items today (and tomorrow's once midnight is within the
// well), and items whose notify lead has come due.
func (m *MemoryDB) EventsNow(now time.Time, well time.Duration) ([]*record.Record, error) {
	records, err := m.all(now)
	if err != nil {
		return nil, err
	}
	var out []*record.Record
	for _, r := range records {
		if r.Completed {
			continue
		}
		if inWindow(r, now, well) || notifyDue(r, now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func inWindow(r *record.Record, now time.Time, well time.Duration) bool {
	switch r.Typ {
	case record.TypeAt:
		start := r.StartTime()
		return !start.Before(now.Add(-well)) && !start.After(now.Add(well))
	case record.TypeSchedule:
		start := r.StartTime()
		stop := start.Add(scheduleLength(r.Scheduled))
		return !now.Before(start.Add(-well)) && !now.After(stop.Add(well))
	case record.TypeAllDay:
		today := record.DateOf(now)
		if r.Date == today {
			return true
		}
		// tomorrow's all-day items surface once midnight is close
		midnight := today.AddDays(1).Time()
		return r.Date == today.AddDays(1) && midnight.Sub(now) <= well
	default:
		return false
	}
}

func scheduleLength(s *record.ScheduleRange) time.Duration {
	start := time.Duration(s.Start.Hour)*time.Hour + time.Duration(s.Start.Minute)*time.Minute + time.Duration(s.Start.Second)*time.Second
	stop := time.Duration(s.Stop.Hour)*time.Hour + time.Duration(s.Stop.Minute)*time.Minute + time.Duration(s.Stop.Second)*time.Second
	if stop < start {
		stop += 24 * time.Hour
	}
	return stop - start
}

func notifyDue(r *record.Record, now time.Time) bool {
	if r.Notify == nil || r.Notified {
		return false
	}
	start := r.StartTime()
	return !now.Before(r.Notify.Before(start)) && !now.After(start)
}

// Notify commits due recurrences, returns the records whose notify
// lead has come due, and marks them notified so they only fire once.
func (m *MemoryDB) Notify(now time.Time) ([]*record.Record, error) {
	if err := m.UpdateRecurrence(now); err != nil {
		return nil, err
	}
	var out []*record.Record
	for _, bucket := range m.Records {
		for _, r := range bucket {
			if r.Completed {
				continue
			}
			if notifyDue(r, now) {
				r.Notified = true
				out = append(out, r)
			}
		}
	}
	record.SortRecords(out)
	return out, nil
}

func (m *MemoryDB) find(key uint64) (*record.Record, error) {
	for _, bucket := range m.Records {
		for _, r := range bucket {
			if r.PrimaryKey == key {
				return r, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: record %d", terrors.ErrNotFound, key)
}

// Complete marks a record done.
func (m *MemoryDB) Complete(key uint64, now time.Time) error {
	if err := m.UpdateRecurrence(now); err != nil {
		return err
	}
	r, err := m.find(key)
	if err != nil {
		return err
	}
	r.Completed = true
	return nil
}

// Delete removes a record by primary key.
func (m *MemoryDB) Delete(key uint64, now time.Time) error {
	if err := m.UpdateRecurrence(now); err != nil {
		return err
	}
	r, err := m.find(key)
	if err != nil {
		return err
	}
	bucket := r.Date.String()
	records := m.Records[bucket]
	for i, candidate := range records {
		if candidate.PrimaryKey == key {
			m.Records[bucket] = append(records[:i], records[i+1:]...)
			break
		}
	}
	if len(m.Records[bucket]) == 0 {
		delete(m.Records, bucket)
	}
	return nil
}

// DeleteRecurrence removes a recurring record and cascades to every
// occurrence it produced.
func (m *MemoryDB) DeleteRecurrence(key uint64, now time.Time) error {
	if err := m.UpdateRecurrence(now); err != nil {
		return err
	}
	idx := -1
	for i, def := range m.Recurring {
		if def.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: recurrence %d", terrors.ErrNotFound, key)
	}
	m.Recurring = append(m.Recurring[:idx], m.Recurring[idx+1:]...)
	for bucket, records := range m.Records {
		kept := records[:0]
		for _, r := range records {
			if r.RecurrenceKey == nil || *r.RecurrenceKey != key {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(m.Records, bucket)
		} else {
			m.Records[bucket] = kept
		}
	}
	return nil
}

func (m *MemoryDB) ListRecurrence() []*record.RecurringRecord {
	out := make([]*record.RecurringRecord, len(m.Recurring))
	copy(out, m.Recurring)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Search evaluates a predicate over the store, provisional occurrences
// included.
func (m *MemoryDB) Search(pred parsers.Predicate, now time.Time) ([]*record.Record, error) {
	records, err := m.all(now)
	if err != nil {
		return nil, err
	}
	return pred.Filter(records), nil
}
