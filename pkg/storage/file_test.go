package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erikh/saturn/pkg/record"

	"github.com/stretchr/testify/assert"
)

func TestLoadDump(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "saturn.db")

	db, err := Load(path)
	assert.Nil(err)
	assert.Empty(db.Records)

	_, err = db.Insert(atRecord(4, 8, "Breakfast"), testNow)
	assert.Nil(err)
	standup := standupTemplate()
	_, err = db.InsertRecurrence(standup, record.Span{Days: 1}, standup.StartTime())
	assert.Nil(err)
	assert.Nil(Dump(path, db))

	info, err := os.Stat(path)
	if assert.Nil(err) {
		assert.Equal(info.Mode().Perm(), os.FileMode(0o600))
	}

	back, err := Load(path)
	assert.Nil(err)
	assert.Equal(back.PrimaryKey, db.PrimaryKey)
	assert.Equal(back.RecurrenceKey, db.RecurrenceKey)
	if assert.Len(back.Recurring, 1) {
		assert.Equal(back.Recurring[0].Every, record.Span{Days: 1})
		assert.True(back.Recurring[0].Anchor.Equal(db.Recurring[0].Anchor))
	}
	records, err := back.ListAll(testNow, true)
	assert.Nil(err)
	want, err := db.ListAll(testNow, true)
	assert.Nil(err)
	if assert.Len(records, len(want)) {
		for i := range records {
			assert.Equal(records[i].Detail, want[i].Detail)
			assert.Equal(records[i].Date, want[i].Date)
		}
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "saturn.db")
	assert.Nil(os.WriteFile(path, []byte("[not yaml"), 0o600))
	_, err := Load(path)
	assert.NotNil(err)
}
