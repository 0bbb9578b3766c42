package mzidstream

import (
	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// section is one stack-disciplined open/close region of the output stream.
//
// A section materializes its container element on enter, emits its queued
// params immediately after the open tag (the schema puts params before
// child elements), optionally emits fixed preamble children, then yields to
// the caller's body. Teardown closes the element and flushes the stream on
// every exit path. Sections are non-reentrant.
type section struct {
	tag string

	// category and key drive identifier registration; category is empty
	// for unidentified grouping elements like SequenceCollection.
	category identity.Category
	key      string
	id       string

	attrs  []xmlsink.Attr
	params []Param

	// preamble emits fixed children after the params, before the body
	// (e.g. the measure table heading a results list).
	preamble func(w *Writer) error

	materialized bool
	closed       bool
	depth        int
}

// withSection runs fn inside sec, guaranteeing close+flush on every exit
// path including panics unwinding out of fn.
func (w *Writer) withSection(sec *section, fn func() error) (err error) {
	if err = w.requireOpen(sec.tag); err != nil {
		return err
	}
	if err = w.enterSection(sec); err != nil {
		return err
	}
	defer func() {
		exitErr := w.exitSection(sec)
		if err == nil {
			err = exitErr
		}
	}()
	if fn == nil {
		return nil
	}
	err = fn()
	return err
}

// enterSection materializes the container element, registers its identifier,
// and emits queued params and preamble children. Materialization is guarded:
// entering the same section twice is a discipline error.
func (w *Writer) enterSection(sec *section) error {
	if sec.materialized {
		return newDisciplineError(sec.tag + " section entered twice")
	}
	sec.materialized = true

	attrs := make([]xmlsink.Attr, 0, len(sec.attrs)+1)
	if sec.category != "" {
		sec.id = w.reg.Register(sec.category, sec.key)
		attrs = append(attrs, xmlsink.Attr{Name: "id", Value: sec.id})
	}
	attrs = append(attrs, sec.attrs...)

	if err := w.sink.Open(sec.tag, attrs...); err != nil {
		return err
	}
	sec.depth = w.sink.Depth()
	w.sections = append(w.sections, sec)

	if err := writeParams(w.sink, sec.params); err != nil {
		return err
	}
	if sec.preamble != nil {
		return sec.preamble(w)
	}
	return nil
}

// exitSection closes sec and flushes. Elements the body left open are
// closed first so the stream never carries an unterminated element past the
// section boundary. Closing out of order or twice is fatal.
func (w *Writer) exitSection(sec *section) error {
	if sec.closed {
		return newDisciplineError(sec.tag + " section closed twice")
	}
	n := len(w.sections)
	if n == 0 || w.sections[n-1] != sec {
		return newDisciplineError(sec.tag + " section closed out of order")
	}
	sec.closed = true
	w.sections = w.sections[:n-1]

	if err := w.sink.CloseTo(sec.depth - 1); err != nil {
		return err
	}
	return w.sink.Flush()
}

// ControlledVocabularies writes the cvList declaring every vocabulary the
// document's cvParams reference. Write it first: cvRef attributes point at
// these declarations. Extra vocabularies are appended to the writer's list
// (the PSI-MS/UNIMOD/UO defaults unless WithVocabularies replaced them).
func (w *Writer) ControlledVocabularies(extra ...Vocabulary) error {
	if err := w.requireOpen("cvList"); err != nil {
		return err
	}
	if w.vocabularies == nil {
		w.vocabularies = DefaultVocabularies()
	}
	w.vocabularies = append(w.vocabularies, extra...)

	err := w.writeElement("cvList", nil, func() error {
		for _, v := range w.vocabularies {
			attrs := []xmlsink.Attr{
				{Name: "id", Value: v.ID},
				{Name: "fullName", Value: v.FullName},
				{Name: "uri", Value: v.URI},
			}
			if v.Version != "" {
				attrs = append(attrs, xmlsink.Attr{Name: "version", Value: v.Version})
			}
			if err := w.writeElement("cv", attrs, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.sink.Flush()
}

// DefaultVocabularies returns the vocabularies declared when the caller
// supplies none: PSI-MS, UNIMOD, and the unit ontology.
func DefaultVocabularies() []Vocabulary {
	return defaultVocabularies()
}

// SequenceCollection opens the SequenceCollection section and runs fn
// inside it. Write DBSequences, then Peptides, then PeptideEvidences.
func (w *Writer) SequenceCollection(fn func() error) error {
	return w.withSection(&section{tag: "SequenceCollection"}, fn)
}

// AnalysisCollection opens the AnalysisCollection section, which links
// protocols to the data they were applied to.
func (w *Writer) AnalysisCollection(fn func() error) error {
	return w.withSection(&section{tag: "AnalysisCollection"}, fn)
}

// AnalysisProtocolCollection opens the AnalysisProtocolCollection section
// holding the identification and detection protocols.
func (w *Writer) AnalysisProtocolCollection(fn func() error) error {
	return w.withSection(&section{tag: "AnalysisProtocolCollection"}, fn)
}

// DataCollection opens the DataCollection section: Inputs followed by
// AnalysisData.
func (w *Writer) DataCollection(fn func() error) error {
	return w.withSection(&section{tag: "DataCollection"}, fn)
}

// AnalysisData opens the AnalysisData section inside DataCollection.
func (w *Writer) AnalysisData(fn func() error) error {
	return w.withSection(&section{tag: "AnalysisData"}, fn)
}
