package dates

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
)

// ParseDate parses a big-endian Mac timestamp from the first 4 bytes of data
func ParseDate(data []byte) (types.Date, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("%w: date needs 4 bytes, got %d", types.ErrMalformed, len(data))
	}
	return types.Date(int32(binary.BigEndian.Uint32(data[0:4]))), nil
}

// ParseFileDates parses the 16-byte file dates entry: creation, modification,
// last backup and last access, in that order
func ParseFileDates(data []byte) (types.Dates, error) {
	if len(data) < types.FileDatesSize {
		return types.Dates{}, fmt.Errorf("%w: file dates need %d bytes, got %d", types.ErrMalformed, types.FileDatesSize, len(data))
	}

	var d types.Dates
	fields := []*types.Date{&d.Create, &d.Modify, &d.Backup, &d.Access}
	for i, field := range fields {
		date, err := ParseDate(data[i*4:])
		if err != nil {
			return types.Dates{}, err
		}
		*field = date
	}
	return d, nil
}
