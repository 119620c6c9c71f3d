package record

import (
	"testing"
	"time"

	"github.com/erikh/saturn/pkg/terrors"

	"github.com/stretchr/testify/assert"
)

func dailyTemplate() Record {
	rec := Record{Date: Date{Year: 2024, Month: 3, Day: 1}, Detail: "Standup"}
	rec.SetAt(Clock{Hour: 9})
	return rec
}

func TestNewRecurring(t *testing.T) {
	assert := assert.New(t)
	def, err := NewRecurring(1, dailyTemplate(), Span{Days: 1})
	if assert.Nil(err) {
		assert.Equal(def.Seq, 0)
		assert.Equal(def.Anchor, def.Template.StartTime())
		assert.Equal(*def.Template.RecurrenceKey, uint64(1))
	}
	_, err = NewRecurring(2, dailyTemplate(), Span{})
	assert.ErrorIs(err, terrors.ErrValue)
	_, err = NewRecurring(3, dailyTemplate(), Span{Neg: true, Days: 1})
	assert.ErrorIs(err, terrors.ErrValue)
}

func TestMaterializeDue(t *testing.T) {
	assert := assert.New(t)

	t.Run("daily backlog", func(t *testing.T) {
		def, err := NewRecurring(1, dailyTemplate(), Span{Days: 1})
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
		due, err := def.MaterializeDue(now)
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		if assert.Len(due, 3) {
			for i, occ := range due {
				assert.Equal(occ.Seq, i+1)
				assert.Equal(occ.Date, Date{Year: 2024, Month: 3, Day: 2 + i})
				assert.Equal(*occ.At, Clock{Hour: 9})
				assert.Equal(*occ.RecurrenceKey, uint64(1))
				assert.Zero(occ.PrimaryKey)
				assert.Empty(occ.InternalKey)
			}
		}
	})

	t.Run("nothing due before the next interval", func(t *testing.T) {
		def, _ := NewRecurring(1, dailyTemplate(), Span{Days: 1})
		now := time.Date(2024, 3, 2, 8, 59, 0, 0, time.Local)
		due, err := def.MaterializeDue(now)
		assert.Nil(err)
		assert.Empty(due)
	})

	t.Run("idempotent without commit", func(t *testing.T) {
		def, _ := NewRecurring(1, dailyTemplate(), Span{Days: 1})
		now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
		first, err := def.MaterializeDue(now)
		assert.Nil(err)
		second, err := def.MaterializeDue(now)
		assert.Nil(err)
		assert.Equal(second, first)
	})

	t.Run("advance consumes the backlog", func(t *testing.T) {
		def, _ := NewRecurring(1, dailyTemplate(), Span{Days: 1})
		now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
		due, err := def.MaterializeDue(now)
		assert.Nil(err)
		def.Advance(len(due))
		assert.Equal(def.Seq, 3)
		again, err := def.MaterializeDue(now)
		assert.Nil(err)
		assert.Empty(again)
	})

	t.Run("monthly clamp resets from the template day", func(t *testing.T) {
		template := Record{Date: Date{Year: 2024, Month: 1, Day: 31}, Detail: "Rent"}
		template.SetAt(Clock{Hour: 9})
		def, err := NewRecurring(2, template, Span{Months: 1})
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local)
		due, err := def.MaterializeDue(now)
		assert.Nil(err)
		if assert.Len(due, 2) {
			assert.Equal(due[0].Date, Date{Year: 2024, Month: 2, Day: 29})
			assert.Equal(due[1].Date, Date{Year: 2024, Month: 3, Day: 31})
		}
	})

	t.Run("schedule occurrences keep their length", func(t *testing.T) {
		template := Record{Date: Date{Year: 2024, Month: 3, Day: 1}, Detail: "Shift"}
		template.SetScheduled(ScheduleRange{
			Start: Clock{Hour: 23},
			Stop:  Clock{Hour: 1},
		})
		def, err := NewRecurring(3, template, Span{Days: 1})
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		now := time.Date(2024, 3, 2, 23, 30, 0, 0, time.Local)
		due, err := def.MaterializeDue(now)
		assert.Nil(err)
		if assert.Len(due, 1) {
			assert.Equal(due[0].Scheduled.Start, Clock{Hour: 23})
			assert.Equal(due[0].Scheduled.Stop, Clock{Hour: 1})
			assert.True(due[0].Scheduled.CrossesMidnight())
		}
	})

	t.Run("corrupt anchor state is fatal", func(t *testing.T) {
		def, _ := NewRecurring(4, dailyTemplate(), Span{Days: 1})
		def.Anchor = def.Anchor.Add(time.Minute)
		_, err := def.MaterializeDue(time.Now())
		assert.ErrorIs(err, terrors.ErrNonMonotonic)
	})
}
