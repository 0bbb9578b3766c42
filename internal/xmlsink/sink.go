package xmlsink

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Attr is one attribute on an element, emitted in slice order. Names are
// written verbatim, so prefixed names like "xsi:schemaLocation" work.
type Attr struct {
	Name  string
	Value string
}

// Sink writes XML tokens to an underlying io.Writer.
//
// All errors from the underlying writer propagate unchanged; the sink never
// retries. After an error the sink is in an undefined state and the document
// should be discarded.
type Sink struct {
	enc  *xml.Encoder
	open []string
}

// New creates a sink writing to w. A non-empty indent enables one level of
// indentation per element depth.
func New(w io.Writer, indent string) *Sink {
	enc := xml.NewEncoder(w)
	if indent != "" {
		enc.Indent("", indent)
	}
	return &Sink{enc: enc}
}

// WriteDeclaration emits the XML declaration. Call once, before Open.
func (s *Sink) WriteDeclaration() error {
	return s.enc.EncodeToken(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="utf-8"`),
	})
}

// Open starts an element with the given attributes.
func (s *Sink) Open(tag string, attrs ...Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: tag}}
	for _, a := range attrs {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: a.Name},
			Value: a.Value,
		})
	}
	if err := s.enc.EncodeToken(start); err != nil {
		return err
	}
	s.open = append(s.open, tag)
	return nil
}

// Text writes escaped character data inside the current element.
func (s *Sink) Text(text string) error {
	return s.enc.EncodeToken(xml.CharData(text))
}

// Close ends the element named tag, which must be the innermost open
// element. A mismatch means the caller lost track of nesting; the document
// is already suspect, so the close is refused.
func (s *Sink) Close(tag string) error {
	if len(s.open) == 0 {
		return fmt.Errorf("close %s: no element open", tag)
	}
	top := s.open[len(s.open)-1]
	if top != tag {
		return fmt.Errorf("close %s: innermost open element is %s", tag, top)
	}
	if err := s.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: tag}}); err != nil {
		return err
	}
	s.open = s.open[:len(s.open)-1]
	return nil
}

// CloseTo closes open elements innermost-first until only depth remain.
// Section teardown uses this so an element left open by a failing body
// still gets its closing tag before the section's own.
func (s *Sink) CloseTo(depth int) error {
	if depth < 0 {
		return fmt.Errorf("close to depth %d: negative depth", depth)
	}
	for len(s.open) > depth {
		if err := s.Close(s.open[len(s.open)-1]); err != nil {
			return err
		}
	}
	return nil
}

// Flush forces buffered tokens through to the underlying writer.
func (s *Sink) Flush() error {
	return s.enc.Flush()
}

// Depth returns the number of currently open elements.
func (s *Sink) Depth() int {
	return len(s.open)
}
