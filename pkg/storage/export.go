package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"

	ics "github.com/arran4/golang-ical"
	"gopkg.in/yaml.v3"
)

type ExportFormat int

const (
	FormatYAML ExportFormat = iota
	FormatJSON
	FormatICal
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(s) {
	case "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "ical", "ics":
		return FormatICal, nil
	default:
		return 0, fmt.Errorf("%w: unknown export format %q", terrors.ErrValue, s)
	}
}

type exportPayload struct {
	Records   []*record.Record          `yaml:"records" json:"records"`
	Recurring []*record.RecurringRecord `yaml:"recurring,omitempty" json:"recurring,omitempty"`
}

// Export writes the whole calendar, provisional occurrences included,
// in the chosen format. iCalendar output renders recurring records as
// single events carrying their RRULE.
func Export(w io.Writer, db *MemoryDB, now time.Time, format ExportFormat) error {
	records, err := db.ListAll(now, true)
	if err != nil {
		return err
	}
	payload := exportPayload{Records: records, Recurring: db.ListRecurrence()}
	switch format {
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(payload)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case FormatICal:
		return exportICal(w, payload, now)
	default:
		return fmt.Errorf("%w: unknown export format %d", terrors.ErrValue, format)
	}
}

func exportICal(w io.Writer, payload exportPayload, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	for _, r := range payload.Records {
		// occurrences are represented by their recurring event's RRULE
		if r.RecurrenceKey != nil {
			continue
		}
		addEvent(cal, r, now, "")
	}
	for _, def := range payload.Recurring {
		rr, err := def.RRule()
		if err != nil {
			// sub-day and mixed intervals have no RRULE frequency
			rr = ""
		}
		addEvent(cal, &def.Template, now, rr)
	}
	return cal.SerializeTo(w)
}

func addEvent(cal *ics.Calendar, r *record.Record, now time.Time, rr string) {
	id := r.InternalKey
	if id == "" {
		id = fmt.Sprintf("saturn-%d-%d", r.PrimaryKey, r.Seq)
	}
	event := cal.AddEvent(id)
	event.SetDtStampTime(now)
	event.SetSummary(r.Detail)
	switch r.Typ {
	case record.TypeAllDay:
		event.SetAllDayStartAt(r.Date.Time())
		event.SetAllDayEndAt(r.Date.AddDays(1).Time())
	case record.TypeAt:
		event.SetStartAt(r.StartTime())
		event.SetEndAt(r.StartTime())
	case record.TypeSchedule:
		start := r.StartTime()
		event.SetStartAt(start)
		event.SetEndAt(start.Add(scheduleLength(r.Scheduled)))
	}
	if rr != "" {
		event.AddRrule(strings.TrimPrefix(rr, "RRULE:"))
	}
}
