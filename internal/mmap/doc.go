// Package mmap provides non-populating, windowed memory mappings used to
// query page cache residency.
//
// # Overview
//
// A Window maps a bounded byte range of a file with no-access protection
// (PROT_NONE). Creating the mapping therefore never forces file contents
// into memory; the only thing ever consulted is the kernel's record of
// which pages are already resident, via Residency (mincore).
//
// # Usage
//
//	w, err := mmap.Map(f, offset, length)
//	if err != nil { ... }
//	defer w.Close()
//
//	vec := make([]byte, pages)
//	if err := w.Residency(vec); err != nil { ... }
//
// # Platform Support
//
//   - Linux: mmap(2) with PROT_NONE and mincore(2)
//   - Other platforms: Map returns ErrUnsupported
//
// # Thread Safety
//
// A Window is not safe for concurrent use. The Close() method is
// idempotent and protected by an atomic flag.
package mmap
