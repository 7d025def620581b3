package types

import (
	"fmt"
)

// Finder info
// The Finder info entry holds the classic FInfo record (16 bytes). Encoders that
// follow the version 2 layout append the FXInfo record (another 16 bytes).

// FinderInfoSize is the size of the FInfo record.
const FinderInfoSize = 16

// ExtendedFinderInfoSize is the size of the FXInfo record that may follow FInfo.
const ExtendedFinderInfoSize = 16

// MacInfoSize is the size of the Macintosh file info entry.
const MacInfoSize = 4

// FourCC is a four-character code such as a file type or creator.
type FourCC [4]byte

// String returns the code as text when all four bytes are printable ASCII,
// and as a hex literal otherwise.
func (c FourCC) String() string {
	for _, b := range c {
		if b < 0x20 || b > 0x7e {
			return fmt.Sprintf("0x%02x%02x%02x%02x", c[0], c[1], c[2], c[3])
		}
	}
	return string(c[:])
}

// Finder flag masks (Finder Interface, FInfo.fdFlags)
const (
	FinderFlagIsOnDesk             FinderFlags = 0x0001
	FinderFlagColorMask            FinderFlags = 0x000E
	FinderFlagColorReserved        FinderFlags = 0x0010
	FinderFlagRequiresSwitchLaunch FinderFlags = 0x0020
	FinderFlagIsShared             FinderFlags = 0x0040
	FinderFlagHasNoINITs           FinderFlags = 0x0080
	FinderFlagHasBeenInited        FinderFlags = 0x0100
	FinderFlagReserved             FinderFlags = 0x0200
	FinderFlagHasCustomIcon        FinderFlags = 0x0400
	FinderFlagIsStationery         FinderFlags = 0x0800
	FinderFlagNameLocked           FinderFlags = 0x1000
	FinderFlagHasBundle            FinderFlags = 0x2000
	FinderFlagIsInvisible          FinderFlags = 0x4000
	FinderFlagIsAlias              FinderFlags = 0x8000
)

// FinderFlagColorShift is the shift applied after masking with FinderFlagColorMask.
const FinderFlagColorShift = 1

// FinderFlags are the flags either manipulated by the Finder or that influence
// the way the Finder presents the file.
type FinderFlags uint16

// IsOnDesktop reports whether the file is on the desktop.
//
// Deprecated: ignored since System 7.
func (f FinderFlags) IsOnDesktop() bool {
	return f&FinderFlagIsOnDesk != 0
}

// Color returns the 3-bit color label.
func (f FinderFlags) Color() uint8 {
	return uint8((f & FinderFlagColorMask) >> FinderFlagColorShift)
}

// ColorReserved reports the bit that follows the color label.
//
// Deprecated: reserved.
func (f FinderFlags) ColorReserved() bool {
	return f&FinderFlagColorReserved != 0
}

// RequiresSwitchLaunch reports whether the application needs a switch launch.
//
// Deprecated: ignored since System 7.
func (f FinderFlags) RequiresSwitchLaunch() bool {
	return f&FinderFlagRequiresSwitchLaunch != 0
}

func (f FinderFlags) IsShared() bool {
	return f&FinderFlagIsShared != 0
}

func (f FinderFlags) HasNoINITs() bool {
	return f&FinderFlagHasNoINITs != 0
}

func (f FinderFlags) HasBeenInited() bool {
	return f&FinderFlagHasBeenInited != 0
}

func (f FinderFlags) HasCustomIcon() bool {
	return f&FinderFlagHasCustomIcon != 0
}

func (f FinderFlags) IsStationery() bool {
	return f&FinderFlagIsStationery != 0
}

func (f FinderFlags) NameLocked() bool {
	return f&FinderFlagNameLocked != 0
}

func (f FinderFlags) HasBundle() bool {
	return f&FinderFlagHasBundle != 0
}

func (f FinderFlags) IsInvisible() bool {
	return f&FinderFlagIsInvisible != 0
}

func (f FinderFlags) IsAlias() bool {
	return f&FinderFlagIsAlias != 0
}

// Names returns the names of the set flags in ascending bit order.
// A non-zero color label is reported as "color<N>".
func (f FinderFlags) Names() []string {
	var names []string
	if f&FinderFlagIsOnDesk != 0 {
		names = append(names, "isOnDesk")
	}
	if c := f.Color(); c != 0 {
		names = append(names, fmt.Sprintf("color%d", c))
	}
	checks := []struct {
		set  bool
		name string
	}{
		{f&FinderFlagColorReserved != 0, "colorReserved"},
		{f&FinderFlagRequiresSwitchLaunch != 0, "requiresSwitchLaunch"},
		{f.IsShared(), "isShared"},
		{f.HasNoINITs(), "hasNoINITs"},
		{f.HasBeenInited(), "hasBeenInited"},
		{f&FinderFlagReserved != 0, "reserved"},
		{f.HasCustomIcon(), "hasCustomIcon"},
		{f.IsStationery(), "isStationery"},
		{f.NameLocked(), "nameLocked"},
		{f.HasBundle(), "hasBundle"},
		{f.IsInvisible(), "isInvisible"},
		{f.IsAlias(), "isAlias"},
	}
	for _, c := range checks {
		if c.set {
			names = append(names, c.name)
		}
	}
	return names
}

// Point is a location in QuickDraw's coordinate system.
type Point struct {
	V int16
	H int16
}

// FinderInfo is the decoded FInfo record.
type FinderInfo struct {
	// The file type code, e.g. "TEXT".
	FileType FourCC
	// The creator code of the owning application, e.g. "ttxt".
	Creator FourCC
	// The Finder flags.
	Flags FinderFlags
	// The file's icon location in its window.
	Location Point
	// The window id of the folder containing the file.
	Folder uint16
	// The FXInfo record, present only when the entry carries it.
	Extended *ExtendedFinderInfo
}

// ExtendedFinderInfo is the decoded FXInfo record. Most of it is only of
// interest to the Finder itself.
type ExtendedFinderInfo struct {
	// Resource id of the file's icon.
	IconID int16
	// Script code of the file name. Zero means unspecified.
	Script int8
	// Extended flags.
	XFlags uint8
	// Resource id of the Finder comment.
	CommentID int16
	// Directory id of the folder the file was put away from.
	PutAway int32
}

// ScriptCode returns the file name's script code. The boolean is false when
// the script is unspecified and the current system script should be used.
func (x ExtendedFinderInfo) ScriptCode() (int8, bool) {
	return x.Script, x.Script != 0
}

// Macintosh file info masks
const (
	MacInfoLocked    MacInfo = 0x00000001
	MacInfoProtected MacInfo = 0x00000002
)

// MacInfo is the 32-bit Macintosh file info word. Only the two lowest bits
// are defined.
type MacInfo uint32

func (m MacInfo) IsLocked() bool {
	return m&MacInfoLocked != 0
}

func (m MacInfo) IsProtected() bool {
	return m&MacInfoProtected != 0
}

// Reserved returns the bits outside the defined ones. It is zero for
// well-formed entries.
func (m MacInfo) Reserved() uint32 {
	return uint32(m &^ (MacInfoLocked | MacInfoProtected))
}
