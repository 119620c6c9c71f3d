package parsers

import (
	"testing"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"

	"github.com/stretchr/testify/assert"
)

func TestParseSearch(t *testing.T) {
	assert := assert.New(t)

	t.Run("clauses", func(t *testing.T) {
		pred, err := ParseSearch("date 10/23 time from 2pm to 10pm detail Scarlett unfinished", refNow)
		if !assert.Nil(err) {
			assert.FailNow(err.Error())
		}
		if assert.Len(pred, 4) {
			assert.Equal(pred[0].Kind, ClauseDate)
			assert.Equal(pred[0].Date, record.Date{Year: 2024, Month: 10, Day: 23})
			assert.Equal(pred[1].Kind, ClauseTimeRange)
			assert.Equal(pred[1].Clock, record.Clock{Hour: 14})
			assert.Equal(pred[1].ClockTo, record.Clock{Hour: 22})
			assert.Equal(pred[2].Kind, ClauseDetail)
			assert.Equal(pred[2].Detail, "Scarlett")
			assert.Equal(pred[3].Kind, ClauseDone)
			assert.False(pred[3].Done)
		}
	})

	t.Run("field key and value in either order", func(t *testing.T) {
		pred, err := ParseSearch("field key location value office", refNow)
		if assert.Nil(err) && assert.Len(pred, 1) {
			assert.Equal(pred[0].Key, "location")
			assert.Equal(pred[0].Value, "office")
			assert.True(pred[0].HasValue)
		}
		pred, err = ParseSearch("field value office key location", refNow)
		if assert.Nil(err) && assert.Len(pred, 1) {
			assert.Equal(pred[0].Key, "location")
			assert.Equal(pred[0].Value, "office")
		}
		pred, err = ParseSearch("field key location", refNow)
		if assert.Nil(err) && assert.Len(pred, 1) {
			assert.False(pred[0].HasValue)
		}
	})

	t.Run("date range", func(t *testing.T) {
		pred, err := ParseSearch("date from 10/23 to 10/25", refNow)
		if assert.Nil(err) && assert.Len(pred, 1) {
			assert.Equal(pred[0].Kind, ClauseDateRange)
			assert.Equal(pred[0].Date, record.Date{Year: 2024, Month: 10, Day: 23})
			assert.Equal(pred[0].DateTo, record.Date{Year: 2024, Month: 10, Day: 25})
		}
	})

	t.Run("recur and finished", func(t *testing.T) {
		pred, err := ParseSearch("recur 3 finished", refNow)
		if assert.Nil(err) && assert.Len(pred, 2) {
			assert.Equal(pred[0].Recur, uint64(3))
			assert.True(pred[1].Done)
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, err := ParseSearch("", refNow)
		assert.ErrorIs(err, terrors.ErrNoArgsProvided)
		_, err = ParseSearch("banana", refNow)
		assert.ErrorIs(err, terrors.ErrUnknownSearchTerm)
		_, err = ParseSearch("date today banana", refNow)
		assert.ErrorIs(err, terrors.ErrUnknownSearchTerm)
		_, err = ParseSearch("date from 10/25 to 10/23", refNow)
		assert.ErrorIs(err, terrors.ErrAmbiguousRange)
		_, err = ParseSearch("time from 10pm to 2pm", refNow)
		assert.ErrorIs(err, terrors.ErrAmbiguousRange)
		_, err = ParseSearch("field value office", refNow)
		assert.ErrorIs(err, terrors.ErrArg)
		_, err = ParseSearch("date", refNow)
		assert.ErrorIs(err, terrors.ErrArg)
	})
}

func TestPredicateMatch(t *testing.T) {
	assert := assert.New(t)

	oct23 := record.Date{Year: 2024, Month: 10, Day: 23}
	scarlett := record.Record{PrimaryKey: 1, Date: oct23, Detail: "Dinner with Scarlett"}
	scarlett.SetScheduled(record.ScheduleRange{
		Start: record.Clock{Hour: 19},
		Stop:  record.Clock{Hour: 21},
	})
	other := record.Record{PrimaryKey: 2, Date: oct23, Detail: "Morning run", Completed: true}
	other.SetAt(record.Clock{Hour: 6})

	pred, err := ParseSearch("date 10/23 time from 2pm to 10pm detail Scarlett unfinished", refNow)
	if !assert.Nil(err) {
		assert.FailNow(err.Error())
	}
	assert.True(pred.Match(&scarlett))
	assert.False(pred.Match(&other))

	t.Run("time point against a schedule", func(t *testing.T) {
		pred, err := ParseSearch("time 20:00", refNow)
		if assert.Nil(err) {
			assert.True(pred.Match(&scarlett))
		}
		pred, err = ParseSearch("time 22:00", refNow)
		if assert.Nil(err) {
			assert.False(pred.Match(&scarlett))
		}
	})

	t.Run("all-day records match any time", func(t *testing.T) {
		allday := record.Record{Date: oct23, Detail: "Conference"}
		allday.SetAllDay()
		pred, err := ParseSearch("time 3:15", refNow)
		if assert.Nil(err) {
			assert.True(pred.Match(&allday))
		}
	})

	t.Run("midnight-crossing schedules span two dates", func(t *testing.T) {
		shift := record.Record{Date: oct23, Detail: "Night shift"}
		shift.SetScheduled(record.ScheduleRange{
			Start: record.Clock{Hour: 23},
			Stop:  record.Clock{Hour: 1},
		})
		pred, err := ParseSearch("date 10/24", refNow)
		if assert.Nil(err) {
			assert.True(pred.Match(&shift))
		}
	})

	t.Run("recurrence parent key", func(t *testing.T) {
		key := uint64(7)
		occ := record.Record{Date: oct23, RecurrenceKey: &key, Detail: "Standup"}
		occ.SetAllDay()
		pred, err := ParseSearch("recur 7", refNow)
		if assert.Nil(err) {
			assert.True(pred.Match(&occ))
		}
		pred, err = ParseSearch("recur 8", refNow)
		if assert.Nil(err) {
			assert.False(pred.Match(&occ))
		}
	})

	t.Run("field clauses", func(t *testing.T) {
		rec := record.Record{Date: oct23, Detail: "Sync", Fields: map[string]string{"location": "office"}}
		rec.SetAllDay()
		pred, err := ParseSearch("field key location", refNow)
		if assert.Nil(err) {
			assert.True(pred.Match(&rec))
		}
		pred, err = ParseSearch("field key location value home", refNow)
		if assert.Nil(err) {
			assert.False(pred.Match(&rec))
		}
	})

	t.Run("filter preserves order", func(t *testing.T) {
		pred, err := ParseSearch("date 10/23", refNow)
		if assert.Nil(err) {
			got := pred.Filter([]*record.Record{&scarlett, &other})
			if assert.Len(got, 2) {
				assert.Equal(got[0].PrimaryKey, uint64(1))
			}
		}
	})
}
