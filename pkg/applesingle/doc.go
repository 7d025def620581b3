// Package applesingle decodes AppleSingle containers: a single-file encoding
// of a classic Macintosh file's data fork, resource fork and Finder metadata.
//
// Two entry points share one decoding core. Parse reads a forward-only stream
// and hands fork payloads to a Handler as it meets them. ParseSeekable reads
// metadata from a random-access source and leaves forks to be read later.
//
//	a, err := applesingle.Parse(r, applesingle.HandlerFunc(func(f applesingle.Fork) io.Writer {
//		if f.Kind == applesingle.ForkData {
//			return dataFile
//		}
//		return nil
//	}))
package applesingle
