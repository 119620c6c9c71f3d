package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"
)

var weekdays = map[string]time.Weekday{}

func init() {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		weekdays[name] = d
		weekdays[name[:3]] = d
	}
}

var dateSeps = strings.NewReplacer("-", "/", ".", "/")

// ResolveDate turns a single date token into a calendar date relative
// to now. Accepted shapes: today/tomorrow/yesterday, a weekday name or
// its three-letter abbreviation (resolving to the next such day, today
// included), a bare day-of-month with optional ordinal suffix, M/D and
// Y/M/D numeric forms with /, - or . separators.
func ResolveDate(tok string, now time.Time) (record.Date, error) {
	today := record.DateOf(now)
	switch strings.ToLower(tok) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	if wd, ok := weekdays[strings.ToLower(tok)]; ok {
		ahead := (int(wd) - int(today.Weekday()) + 7) % 7
		return today.AddDays(ahead), nil
	}

	if strings.ContainsAny(tok, "/-.") {
		parts := strings.Split(dateSeps.Replace(tok), "/")
		nums := make([]int, len(parts))
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 {
				return record.Date{}, fmt.Errorf("%w: %q", terrors.ErrUnparsableDate, tok)
			}
			nums[i] = n
		}
		switch len(nums) {
		case 2:
			return makeDate(tok, today.Year, nums[0], nums[1])
		case 3:
			return makeDate(tok, nums[0], nums[1], nums[2])
		default:
			return record.Date{}, fmt.Errorf("%w: %q", terrors.ErrUnparsableDate, tok)
		}
	}

	// bare day-of-month, ordinal suffix tolerated but not checked
	// against the value
	day := strings.ToLower(tok)
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if rest, ok := strings.CutSuffix(day, suffix); ok {
			day = rest
			break
		}
	}
	if n, err := strconv.Atoi(day); err == nil && day != "" {
		return makeDate(tok, today.Year, int(today.Month), n)
	}
	return record.Date{}, fmt.Errorf("%w: %q", terrors.ErrUnparsableDate, tok)
}

func makeDate(tok string, year, month, day int) (record.Date, error) {
	d := record.Date{Year: year, Month: time.Month(month), Day: day}
	if month < 1 || month > 12 || day < 1 || day > record.DaysIn(year, time.Month(month)) {
		return record.Date{}, fmt.Errorf("%w: %q", terrors.ErrInvalidDate, tok)
	}
	return d, nil
}
