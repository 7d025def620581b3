package types

import "fmt"

// Container header
// An AppleSingle container starts with a fixed 26-byte header followed by a table
// of 12-byte entry descriptors. All integers are big-endian.

// Magic is the AppleSingle magic number found at offset 0.
const Magic uint32 = 0x00051600

// Version is the only supported AppleSingle format version, found at offset 4.
const Version uint32 = 0x00020000

// HeaderSize is the size of the fixed header: magic, version, 16 reserved bytes
// and the 2-byte entry count.
const HeaderSize = 26

// ReservedSize is the size of the filler between the version and the entry count.
const ReservedSize = 16

// DescriptorSize is the size of one entry descriptor in the table of contents.
const DescriptorSize = 12

// FormatName is the format tag recorded on every decoded archive.
const FormatName = "AppleSingle"

// EntryID is a known AppleSingle entry type.
// Raw ids outside the known set are still valid entries; their bytes are kept
// but not interpreted.
type EntryID uint32

// Entry IDs
const (
	// EntryDataFork holds the file's data fork.
	EntryDataFork EntryID = 1
	// EntryResourceFork holds the file's resource fork.
	EntryResourceFork EntryID = 2
	// EntryRealName holds the file's name as created on the home file system.
	EntryRealName EntryID = 3
	// EntryComment holds the comment shown in the Finder's Get Info window.
	EntryComment EntryID = 4
	// EntryIconBW holds the standard black and white icon.
	EntryIconBW EntryID = 5
	// EntryIconColor holds the color icon.
	EntryIconColor EntryID = 6
	// EntryFileDates holds creation, modification, backup and access dates.
	EntryFileDates EntryID = 8
	// EntryFinderInfo holds the Finder's FInfo and, optionally, FXInfo records.
	EntryFinderInfo EntryID = 9
	// EntryMacFileInfo holds the Macintosh lock and protect bits.
	EntryMacFileInfo EntryID = 10
	// EntryProDOSFileInfo holds ProDOS access, file type and aux type.
	EntryProDOSFileInfo EntryID = 11
	// EntryMSDOSFileInfo holds MS-DOS attributes.
	EntryMSDOSFileInfo EntryID = 12
	// EntryAFPShortName holds the AFP short name.
	EntryAFPShortName EntryID = 13
	// EntryAFPFileInfo holds AFP attributes.
	EntryAFPFileInfo EntryID = 14
	// EntryAFPDirectoryID holds the AFP directory id.
	EntryAFPDirectoryID EntryID = 15
)

var entryNames = map[EntryID]string{
	EntryDataFork:       "DATA_FORK",
	EntryResourceFork:   "RESOURCE_FORK",
	EntryRealName:       "REAL_NAME",
	EntryComment:        "COMMENT",
	EntryIconBW:         "ICON_BW",
	EntryIconColor:      "ICON_COLOR",
	EntryFileDates:      "FILE_DATES_INFO",
	EntryFinderInfo:     "FINDER_INFO",
	EntryMacFileInfo:    "MACINTOSH_FILE_INFO",
	EntryProDOSFileInfo: "PRODOS_FILE_INFO",
	EntryMSDOSFileInfo:  "MSDOS_FILE_INFO",
	EntryAFPShortName:   "AFP_SHORT_NAME",
	EntryAFPFileInfo:    "AFP_FILE_INFO",
	EntryAFPDirectoryID: "AFP_DIRECTORY_ID",
}

// ParseEntryID converts a raw descriptor id into a known EntryID.
// The boolean is false for ids outside the known set.
func ParseEntryID(raw uint32) (EntryID, bool) {
	id := EntryID(raw)
	_, ok := entryNames[id]
	return id, ok
}

func (e EntryID) String() string {
	if name, ok := entryNames[e]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%X", uint32(e))
}

// Segment is one entry descriptor from the table of contents.
// Offset is an absolute byte position in the container.
type Segment struct {
	// The raw entry id. May be outside the known EntryID set.
	ID uint32
	// Absolute offset of the entry's first byte.
	Offset uint32
	// Number of bytes in the entry.
	Length uint32
}

// Entry returns the known entry type for the segment, if any.
func (s Segment) Entry() (EntryID, bool) {
	return ParseEntryID(s.ID)
}

// End returns the offset one past the segment's last byte.
// It is computed in 64 bits so that it cannot overflow.
func (s Segment) End() uint64 {
	return uint64(s.Offset) + uint64(s.Length)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s@%#x+%#x", EntryID(s.ID), s.Offset, s.Length)
}
