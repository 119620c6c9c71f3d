package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"
)

// ResolveTime turns a single time token into a wall-clock time.
// Accepted shapes: midnight, noon, H:MM:SS (: or . separated), H[:MM]
// with an optional am/pm designation. A bare H[:MM] below 13 is pulled
// into the same half of the day as now when infer is set; with it off,
// or for H >= 13, the hour is read as 24h.
func ResolveTime(tok string, infer bool, now time.Time) (record.Clock, error) {
	lower := strings.ToLower(tok)
	switch lower {
	case "midnight":
		return record.Clock{}, nil
	case "noon":
		return record.Clock{Hour: 12}, nil
	}

	body := lower
	designation := ""
	for _, d := range []string{"am", "pm"} {
		if rest, ok := strings.CutSuffix(body, d); ok {
			body, designation = rest, d
			break
		}
	}

	parts := strings.FieldsFunc(body, func(r rune) bool { return r == ':' || r == '.' })
	if len(parts) == 0 || len(parts) > 3 || (designation != "" && len(parts) > 2) {
		return record.Clock{}, fmt.Errorf("%w: %q", terrors.ErrInvalidTime, tok)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return record.Clock{}, fmt.Errorf("%w: %q", terrors.ErrInvalidTime, tok)
		}
		nums[i] = n
	}
	h, m, s := nums[0], nums[1], nums[2]

	switch designation {
	case "am":
		if h == 12 {
			h = 0
		}
	case "pm":
		if h == 12 {
			h = 12
		} else if h < 12 {
			h += 12
		}
	default:
		// bare hours below 13 follow the current half of the day the
		// way an explicit designation would; 13+ is unambiguous 24h
		if len(parts) < 3 && infer && h < 13 {
			if now.Hour() >= 12 {
				if h < 12 {
					h += 12
				}
			} else if h == 12 {
				h = 0
			}
		}
	}

	if h > 23 || m > 59 || s > 59 {
		return record.Clock{}, fmt.Errorf("%w: %q", terrors.ErrInvalidTime, tok)
	}
	return record.Clock{Hour: h, Minute: m, Second: s}, nil
}
