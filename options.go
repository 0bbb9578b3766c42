package mzidstream

import "time"

// Option configures a Writer at construction time.
type Option func(*Writer)

// WithIndent sets the indentation unit for nested elements.
// The default is two spaces; an empty string produces compact output.
func WithIndent(indent string) Option {
	return func(w *Writer) {
		w.indent = indent
	}
}

// WithDocumentID fixes the id attribute of the MzIdentML root element
// instead of generating one.
func WithDocumentID(id string) Option {
	return func(w *Writer) {
		w.documentID = id
	}
}

// WithDocumentIDGenerator replaces the UUIDv7 document id generator.
// Tests use this with a FixedGenerator for byte-stable output.
func WithDocumentIDGenerator(gen DocumentIDGenerator) Option {
	return func(w *Writer) {
		w.idGen = gen
	}
}

// WithCreationDate fixes the creationDate attribute of the root element.
// The default is the wall clock at Begin.
func WithCreationDate(ts time.Time) Option {
	return func(w *Writer) {
		w.creationDate = ts
	}
}

// WithVocabularies replaces the default controlled-vocabulary list
// (PSI-MS, UNIMOD, UO) declared by ControlledVocabularies.
func WithVocabularies(vocabs ...Vocabulary) Option {
	return func(w *Writer) {
		w.vocabularies = vocabs
	}
}
