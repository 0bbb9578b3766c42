// Package mzidstream writes mzIdentML 1.1 documents incrementally.
//
// The writer produces a large, cross-referential XML document from simple
// records without ever holding the document tree in memory. Output is
// forward-only: once a section is closed it is never revisited.
//
// ARCHITECTURE:
//
// Single-Writer Stream:
// All writes for one document go through one Writer on one goroutine. The
// identifier registry and the stream cursor are mutable state scoped to that
// Writer; nothing is shared between documents, so tests and concurrent
// exports never cross-contaminate identifiers.
//
// Identity Registry:
// Entities that can be referenced elsewhere (peptides, protocols, spectra
// data, ...) register an identifier under their category when they are
// constructed. Cross-references are resolved against the registry before any
// bytes are written, so a dangling reference fails fast instead of producing
// a document that only a schema validator would reject.
//
// Scoped Sections:
// Container elements are written through section combinators
// (SequenceCollection, DataCollection, ...) that take the body as a closure.
// The section's closing tag is written and the stream flushed on every exit
// path, including panics. A half-written document after an abandoned write
// is explicitly allowed to be invalid; an unterminated element is not.
//
// Write order is a documented contract: controlled vocabularies, then
// providence, then sequence, analysis, and data collections. Entities must
// be registered before later sections reference them; Register allows
// pre-registering identifiers that are declared late but referenced early.
//
// A minimal document:
//
//	w := mzidstream.NewWriter(f)
//	if err := w.Begin(); err != nil { ... }
//	w.ControlledVocabularies()
//	w.Providence(mzidstream.Providence{Software: []mzidstream.AnalysisSoftwareSource{
//		mzidstream.SoftwareRecord{Name: "Mascot", Version: "2.3"},
//	}})
//	w.SequenceCollection(func() error {
//		return w.WriteDBSequence(mzidstream.DBSequenceRecord{Accession: "P02768", SearchDatabaseRef: "SDB_1"})
//	})
//	...
//	w.Close()
package mzidstream
