package parsers

import (
	"testing"
	"time"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"

	"github.com/stretchr/testify/assert"
)

func TestParseEntry(t *testing.T) {
	assert := assert.New(t)

	t.Run("instant entry", func(t *testing.T) {
		entry, err := ParseEntry("tomorrow at 8pm notify 30m Take a Shower", refNow, false)
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		assert.Nil(entry.Every)
		assert.Equal(entry.Record.Date, record.Date{Year: 2024, Month: 3, Day: 2})
		assert.Equal(entry.Record.Typ, record.TypeAt)
		assert.Equal(*entry.Record.At, record.Clock{Hour: 20})
		assert.Equal(*entry.Record.Notify, record.Span{Minutes: 30})
		assert.Equal(entry.Record.Detail, "Take a Shower")
	})

	t.Run("recurring all-day entry", func(t *testing.T) {
		// 2024-03-06 is a Wednesday
		wednesday := time.Date(2024, 3, 6, 10, 0, 0, 0, time.Local)
		entry, err := ParseEntry("recur 1w monday all day notify 1h Standup", wednesday, false)
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		assert.Equal(*entry.Every, record.Span{Weeks: 1})
		assert.Equal(entry.Record.Date, record.Date{Year: 2024, Month: 3, Day: 11})
		assert.Equal(entry.Record.Typ, record.TypeAllDay)
		assert.Equal(*entry.Record.Notify, record.Span{Hours: 1})
		assert.Equal(entry.Record.Detail, "Standup")
	})

	t.Run("schedule entry", func(t *testing.T) {
		entry, err := ParseEntry("wednesday from 7:30am to 8am Standup with the team", refNow, false)
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		assert.Equal(entry.Record.Typ, record.TypeSchedule)
		assert.Equal(entry.Record.Scheduled.Start, record.Clock{Hour: 7, Minute: 30})
		assert.Equal(entry.Record.Scheduled.Stop, record.Clock{Hour: 8})
		assert.Equal(entry.Record.Detail, "Standup with the team")
	})

	t.Run("until is accepted for to", func(t *testing.T) {
		entry, err := ParseEntry("today from 9am until 5pm Deep work", refNow, false)
		if assert.Nil(err) {
			assert.Equal(entry.Record.Scheduled.Stop, record.Clock{Hour: 17})
		}
	})

	t.Run("stop before start crosses midnight", func(t *testing.T) {
		entry, err := ParseEntry("today from 11pm to 1am Night shift", refNow, false)
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		assert.True(entry.Record.Scheduled.CrossesMidnight())
		assert.Equal(entry.Record.EndDate(), record.Date{Year: 2024, Month: 3, Day: 2})
	})

	t.Run("notify me variant", func(t *testing.T) {
		entry, err := ParseEntry("tomorrow all day notify me 1d Anniversary", refNow, false)
		if assert.Nil(err) {
			assert.Equal(*entry.Record.Notify, record.Span{Days: 1})
		}
	})

	t.Run("bare trailing m leads are minutes", func(t *testing.T) {
		entry, err := ParseEntry("today at 8 notify me 5m Meds", refNow, false)
		if assert.Nil(err) {
			assert.Equal(*entry.Record.Notify, record.Span{Minutes: 5})
			assert.Equal(entry.Record.Notify.Before(entry.Record.StartTime()),
				entry.Record.StartTime().Add(-5*time.Minute))
		}
	})

	t.Run("inference applies only to today", func(t *testing.T) {
		entry, err := ParseEntry("today at 8 Dinner", refNow, false)
		if assert.Nil(err) {
			assert.Equal(*entry.Record.At, record.Clock{Hour: 20})
		}
		entry, err = ParseEntry("tomorrow at 8 Dinner", refNow, false)
		if assert.Nil(err) {
			assert.Equal(*entry.Record.At, record.Clock{Hour: 8})
		}
		entry, err = ParseEntry("today at 8 Dinner", refNow, true)
		if assert.Nil(err) {
			assert.Equal(*entry.Record.At, record.Clock{Hour: 8})
		}
	})

	t.Run("detail keeps original casing", func(t *testing.T) {
		entry, err := ParseEntry("today at noon LUNCH with Bob", refNow, false)
		if assert.Nil(err) {
			assert.Equal(entry.Record.Detail, "LUNCH with Bob")
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, err := ParseEntry("", refNow, false)
		assert.ErrorIs(err, terrors.ErrNoArgsProvided)
		_, err = ParseEntry("tomorrow Dinner", refNow, false)
		assert.ErrorIs(err, terrors.ErrMissingShape)
		_, err = ParseEntry("tomorrow at 8pm", refNow, false)
		assert.ErrorIs(err, terrors.ErrMissingDetail)
		_, err = ParseEntry("tomorrow all Dinner", refNow, false)
		assert.ErrorIs(err, terrors.ErrMissingShape)
		_, err = ParseEntry("recur", refNow, false)
		assert.ErrorIs(err, terrors.ErrArg)
		_, err = ParseEntry("recur 1x today all day Gym", refNow, false)
		assert.ErrorIs(err, terrors.ErrMalformedDuration)
		_, err = ParseEntry("32nd at 8pm Party", refNow, false)
		assert.ErrorIs(err, terrors.ErrInvalidDate)
		_, err = ParseEntry("tomorrow at 25 Party", refNow, false)
		assert.ErrorIs(err, terrors.ErrInvalidTime)
	})
}
