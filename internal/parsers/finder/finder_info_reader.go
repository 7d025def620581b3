package finder

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
)

// ParseFinderInfo parses a Finder info entry. The first 16 bytes are the FInfo
// record; if at least 16 more bytes follow they are parsed as FXInfo.
func ParseFinderInfo(data []byte) (types.FinderInfo, error) {
	if len(data) < types.FinderInfoSize {
		return types.FinderInfo{}, fmt.Errorf("%w: finder info needs %d bytes, got %d", types.ErrMalformed, types.FinderInfoSize, len(data))
	}

	var fi types.FinderInfo
	copy(fi.FileType[:], data[0:4])
	copy(fi.Creator[:], data[4:8])
	fi.Flags = types.FinderFlags(binary.BigEndian.Uint16(data[8:10]))
	fi.Location = types.Point{
		V: int16(binary.BigEndian.Uint16(data[10:12])),
		H: int16(binary.BigEndian.Uint16(data[12:14])),
	}
	fi.Folder = binary.BigEndian.Uint16(data[14:16])

	if rest := data[types.FinderInfoSize:]; len(rest) >= types.ExtendedFinderInfoSize {
		x, err := ParseExtendedFinderInfo(rest)
		if err != nil {
			return types.FinderInfo{}, err
		}
		fi.Extended = &x
	}

	return fi, nil
}

// ParseExtendedFinderInfo parses a 16-byte FXInfo record
func ParseExtendedFinderInfo(data []byte) (types.ExtendedFinderInfo, error) {
	if len(data) < types.ExtendedFinderInfoSize {
		return types.ExtendedFinderInfo{}, fmt.Errorf("%w: extended finder info needs %d bytes, got %d", types.ErrMalformed, types.ExtendedFinderInfoSize, len(data))
	}

	// data[2:8] is reserved
	return types.ExtendedFinderInfo{
		IconID:    int16(binary.BigEndian.Uint16(data[0:2])),
		Script:    int8(data[8]),
		XFlags:    data[9],
		CommentID: int16(binary.BigEndian.Uint16(data[10:12])),
		PutAway:   int32(binary.BigEndian.Uint32(data[12:16])),
	}, nil
}
