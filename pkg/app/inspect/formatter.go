package inspect

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/deploymenttheory/go-applesingle/pkg/app"
)

// FormatOutput writes inspection results to w in the requested format
func FormatOutput(w io.Writer, response *Response, format string) error {
	if format == app.FormatTable {
		return formatTable(w, response)
	}
	return app.Encode(w, format, response)
}

// formatTable writes one block per file
func formatTable(w io.Writer, response *Response) error {
	if len(response.Files) == 0 {
		fmt.Fprintln(w, "No files matched.")
		return nil
	}

	for i, file := range response.Files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := formatFile(w, &file); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n%s\n", FormatSummary(response))
	return nil
}

func formatFile(out io.Writer, file *FileReport) error {
	fmt.Fprintf(out, "%s (%s)\n", file.Path, humanize.IBytes(uint64(file.Size)))
	if file.Error != "" {
		fmt.Fprintf(out, "  error: %s\n", file.Error)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "  Format:\t%s\n", file.Format)
	if file.Name != "" {
		fmt.Fprintf(w, "  Name:\t%s\n", file.Name)
	}
	if file.Comment != "" {
		fmt.Fprintf(w, "  Comment:\t%s\n", file.Comment)
	}
	if fi := file.FinderInfo; fi != nil {
		fmt.Fprintf(w, "  Type/Creator:\t%s/%s\n", fi.FileType, fi.Creator)
		if len(fi.Flags) > 0 {
			fmt.Fprintf(w, "  Finder flags:\t%s\n", strings.Join(fi.Flags, ", "))
		}
		fmt.Fprintf(w, "  Location:\t%s\n", fi.Location)
	}
	if mi := file.MacInfo; mi != nil {
		fmt.Fprintf(w, "  Locked:\t%t\n", mi.Locked)
		fmt.Fprintf(w, "  Protected:\t%t\n", mi.Protected)
	}
	if d := file.Dates; d != nil {
		fmt.Fprintf(w, "  Created:\t%s\n", d.Created)
		fmt.Fprintf(w, "  Modified:\t%s\n", d.Modified)
		fmt.Fprintf(w, "  Backed up:\t%s\n", d.Backup)
		fmt.Fprintf(w, "  Accessed:\t%s\n", d.Accessed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(file.Segments) > 0 {
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  ENTRY\tID\tOFFSET\tLENGTH\n")
		for _, seg := range file.Segments {
			fmt.Fprintf(w, "  %s\t%d\t%#x\t%d\n", seg.Entry, seg.ID, seg.Offset, seg.Length)
		}
		for _, seg := range file.Replaced {
			fmt.Fprintf(w, "  %s (replaced)\t%d\t%#x\t%d\n", seg.Entry, seg.ID, seg.Offset, seg.Length)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(file.Forks) > 0 {
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  FORK\tENTRY\tSIZE\tDIGEST\n")
		for _, fork := range file.Forks {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", fork.Kind, fork.Entry, fork.FormatSize(), fork.Digest)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	if response.TotalFiles == 0 {
		return "No files inspected"
	}

	summary := fmt.Sprintf("Inspected %d file", response.TotalFiles)
	if response.TotalFiles != 1 {
		summary += "s"
	}
	if response.Failed > 0 {
		summary += fmt.Sprintf(" (%d failed)", response.Failed)
	}

	var totalSize int64
	for _, file := range response.Files {
		totalSize += file.TotalForkSize()
	}

	summary += fmt.Sprintf(" with %s of fork data", humanize.IBytes(uint64(totalSize)))
	summary += fmt.Sprintf(" in %v", response.ElapsedTime)

	return summary
}
