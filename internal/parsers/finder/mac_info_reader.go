package finder

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
)

// ParseMacInfo parses the 4-byte Macintosh file info entry
func ParseMacInfo(data []byte) (types.MacInfo, error) {
	if len(data) < types.MacInfoSize {
		return 0, fmt.Errorf("%w: mac file info needs %d bytes, got %d", types.ErrMalformed, types.MacInfoSize, len(data))
	}
	return types.MacInfo(binary.BigEndian.Uint32(data[0:4])), nil
}
