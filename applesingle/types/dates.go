package types

import (
	"strconv"
	"time"
)

// File dates
// AppleSingle version 2 stores dates as signed 32-bit seconds relative to
// 2000-01-01T00:00:00Z, not the classic Mac OS 1904 epoch.

// MacEpoch is the Unix timestamp of 2000-01-01T00:00:00Z.
const MacEpoch int64 = 946684800

// FileDatesSize is the size of the file dates entry.
const FileDatesSize = 16

// Date is a Mac file timestamp: seconds before or after the start of the year 2000.
type Date int32

// Raw returns the stored integer.
func (d Date) Raw() int32 {
	return int32(d)
}

// Unix returns the date as seconds since the Unix epoch.
func (d Date) Unix() int64 {
	return int64(d) + MacEpoch
}

// Time returns the date as a UTC calendar time.
func (d Date) Time() time.Time {
	return time.Unix(d.Unix(), 0).UTC()
}

// String formats the date as RFC 3339. If the calendar value cannot be
// formatted as a four-digit year the raw integer is returned instead.
func (d Date) String() string {
	t := d.Time()
	if y := t.Year(); y < 0 || y > 9999 {
		return strconv.FormatInt(int64(d), 10)
	}
	return t.Format(time.RFC3339)
}

// Dates holds all the dates the Finder records for a file.
type Dates struct {
	Create Date
	Modify Date
	Backup Date
	Access Date
}
