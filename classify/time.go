package classify

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// TimeClass classifies instants and calendar values.
type TimeClass uint8

const (
	// TimeProbablyError is anything before the Unix epoch or in 2050 and later.
	TimeProbablyError TimeClass = iota
	// TimeDefault is exactly the Unix epoch, 1970-01-01T00:00:00.
	TimeDefault
	TimeNormal
)

var timeClassNames = [...]string{"ProbablyError", "Default", "Normal"}

func (c TimeClass) String() string {
	if int(c) < len(timeClassNames) {
		return timeClassNames[c]
	}
	return "TimeClass(" + strconv.Itoa(int(c)) + ")"
}

func (c TimeClass) AppendKey(dst []byte) []byte { return append(dst, byte(c)) }

const errorYear = 2050

var (
	unixEpoch     = time.Unix(0, 0)
	epochDate     = civil.Date{Year: 1970, Month: time.January, Day: 1}
	epochDateTime = civil.DateTime{Date: epochDate}
)

// Time classifies an instant. The comparison is against the epoch instant,
// so the location of t does not matter; the year is taken in UTC.
// The zero time.Time (year 1) is TimeProbablyError.
func Time(t time.Time) TimeClass {
	switch {
	case t.Equal(unixEpoch):
		return TimeDefault
	case t.Before(unixEpoch) || t.UTC().Year() >= errorYear:
		return TimeProbablyError
	default:
		return TimeNormal
	}
}

// Date classifies a calendar date with no time zone.
func Date(d civil.Date) TimeClass {
	switch {
	case d == epochDate:
		return TimeDefault
	case d.Before(epochDate) || d.Year >= errorYear:
		return TimeProbablyError
	default:
		return TimeNormal
	}
}

// DateTime classifies a wall-clock date and time with no time zone.
func DateTime(dt civil.DateTime) TimeClass {
	switch {
	case dt == epochDateTime:
		return TimeDefault
	case dt.Before(epochDateTime) || dt.Date.Year >= errorYear:
		return TimeProbablyError
	default:
		return TimeNormal
	}
}
