// Package extract turns windows of compiler output into diagnostic entries.
//
// An Extractor understands one output format. It is handed a byte window and
// the absolute offset of that window inside the whole log, and returns the
// entries it recognized with offsets relative to the window. The parse engine
// owns the log, corrects offsets and slices entry text; extractors stay pure.
//
// # Windows that start mid-log
//
// When correction is greater than zero the window begins inside text that was
// already seen. The engine moves the start of such a window forward to the
// next line boundary, so extractors never see a leading line fragment. An
// entry whose first line starts before the window was either reported by an
// earlier window or is longer than the configured overlap, which is a
// documented limitation of the overlap scheme.
//
// # Registry
//
// Extractors are selected by name:
//
//	reg := extract.Default()
//	x, err := reg.Lookup("gcc")
//	if err != nil {
//	    return err // wraps domain.ErrUnknownExtractor
//	}
//
// Built-ins: gcc (alias clang), go, generic.
package extract
