package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"
	"howett.net/plist"
)

// Output formats understood by every command
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatPlist = "plist"
	FormatDump  = "dump"
)

// OutputFormats lists the accepted values of the --output flag
var OutputFormats = []string{FormatTable, FormatJSON, FormatYAML, FormatPlist, FormatDump}

// ValidateOutputFormat reports an INVALID_INPUT error for unknown formats
func ValidateOutputFormat(format string) error {
	for _, f := range OutputFormats {
		if f == format {
			return nil
		}
	}
	return NewError(ErrCodeInvalidInput, fmt.Sprintf("unsupported output format: %s", format), nil)
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Encode writes v to w in one of the structured formats. The table format is
// command specific and is not handled here.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(v)
	case FormatPlist:
		encoder := plist.NewEncoderForFormat(w, plist.XMLFormat)
		encoder.Indent("\t")
		return encoder.Encode(v)
	case FormatDump:
		dumpConfig.Fdump(w, v)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
