package mzidstream

import (
	"io"
	"time"

	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

const (
	xmlns          = "http://psidev.info/psi/pi/mzIdentML/1.1"
	xmlnsXSI       = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://psidev.info/psi/pi/mzIdentML/1.1 http://www.psidev.info/files/mzIdentML1.1.0.xsd"
	schemaVersion  = "1.1.0"
)

// writerState tracks the document lifecycle: sections may only be entered
// while the writer is open.
type writerState int

const (
	stateUnopened writerState = iota
	stateOpen
	stateClosed
)

func (s writerState) String() string {
	switch s {
	case stateUnopened:
		return "unopened"
	case stateOpen:
		return "open"
	case stateClosed:
		return "closed"
	}
	return "unknown"
}

// Writer streams one mzIdentML document to an underlying io.Writer.
//
// A Writer owns the identifier registry and the stream cursor for exactly
// one document. It is single-threaded: all calls must come from one
// goroutine, in document order. Top-level sections follow the contract
// documented on the package: controlled vocabularies, providence, sequence
// collection, analysis collection, analysis protocol collection, data
// collection. The writer does not enforce that order at runtime; it
// enforces nesting discipline and reference integrity.
type Writer struct {
	sink  *xmlsink.Sink
	reg   *identity.Registry
	state writerState

	// sections is the stack of currently entered sections, outermost first.
	sections []*section

	indent       string
	documentID   string
	idGen        DocumentIDGenerator
	creationDate time.Time
	vocabularies []Vocabulary
}

// NewWriter creates a Writer targeting out. Nothing is written until Begin.
func NewWriter(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		reg:    identity.NewRegistry(),
		indent: "  ",
		idGen:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.sink = xmlsink.New(out, w.indent)
	return w
}

// Begin writes the XML declaration and opens the MzIdentML root element,
// moving the writer to the Open state.
func (w *Writer) Begin() error {
	if w.state != stateUnopened {
		return newDisciplineError("Begin called on " + w.state.String() + " writer")
	}

	id := w.documentID
	if id == identity.Auto {
		id = w.idGen.Generate()
	}
	w.reg.Register(identity.CategoryDocument, id)

	created := w.creationDate
	if created.IsZero() {
		created = time.Now()
	}

	if err := w.sink.WriteDeclaration(); err != nil {
		return err
	}
	err := w.sink.Open("MzIdentML",
		xmlsink.Attr{Name: "id", Value: id},
		xmlsink.Attr{Name: "version", Value: schemaVersion},
		xmlsink.Attr{Name: "xmlns", Value: xmlns},
		xmlsink.Attr{Name: "xmlns:xsi", Value: xmlnsXSI},
		xmlsink.Attr{Name: "xsi:schemaLocation", Value: schemaLocation},
		xmlsink.Attr{Name: "creationDate", Value: created.Format(time.RFC3339)},
	)
	if err != nil {
		return err
	}
	w.state = stateOpen
	return w.sink.Flush()
}

// Close ends the root element and flushes the stream, moving the writer to
// the Closed state. Closing with sections still entered is a discipline
// error: the section combinators should have unwound first.
func (w *Writer) Close() error {
	if w.state != stateOpen {
		return newDisciplineError("Close called on " + w.state.String() + " writer")
	}
	if len(w.sections) != 0 {
		return newDisciplineError("Close called with " + w.sections[len(w.sections)-1].tag + " still open")
	}
	if err := w.sink.Close("MzIdentML"); err != nil {
		return err
	}
	w.state = stateClosed
	return w.sink.Flush()
}

// Register maps key to an identifier under cat and returns the identifier.
// Use it to pre-register identifiers that later sections declare but
// earlier sections must reference, mirroring the forward-reference rules of
// the format. Registration is idempotent; Auto always yields a fresh id.
func (w *Writer) Register(cat Category, key string) string {
	return w.reg.Register(cat, key)
}

// Resolve returns the identifier registered for key under cat, or a
// dangling-reference error if it was never registered.
func (w *Writer) Resolve(cat Category, key string) (string, error) {
	return w.reg.Resolve(cat, key)
}

// requireOpen guards every section and write operation.
func (w *Writer) requireOpen(op string) error {
	if w.state != stateOpen {
		return newDisciplineError(op + " on " + w.state.String() + " writer")
	}
	return nil
}

// writeElement opens tag, runs body, and closes tag. It is the plain
// element helper for entity serialization; it does not flush and does not
// guarantee closure on body error (section teardown handles that).
func (w *Writer) writeElement(tag string, attrs []xmlsink.Attr, body func() error) error {
	if err := w.sink.Open(tag, attrs...); err != nil {
		return err
	}
	if body != nil {
		if err := body(); err != nil {
			return err
		}
	}
	return w.sink.Close(tag)
}

// writeLeaf emits an element holding only attributes and params.
func (w *Writer) writeLeaf(tag string, attrs []xmlsink.Attr, params []Param) error {
	return w.writeElement(tag, attrs, func() error {
		return writeParams(w.sink, params)
	})
}
