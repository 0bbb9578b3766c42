package mzidstream

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/mzidstream/internal/cv"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// Vocabulary describes one controlled vocabulary declared in the document's
// cvList.
type Vocabulary = cv.Vocabulary

func defaultVocabularies() []Vocabulary {
	return cv.DefaultVocabularies()
}

// Param is one cvParam or userParam child of a schema element.
//
// A Param supplied with only a Name is resolved against the vocabulary
// catalog: a known name becomes a cvParam with its canonical accession and
// casing, an unknown name becomes a userParam. Setting Accession pins the
// cvParam form; setting User pins the userParam form.
type Param struct {
	Name      string
	Accession string
	CVRef     string
	Value     any
	Unit      string
	User      bool
}

// CV builds a cvParam by term name. The accession is filled in from the
// catalog at write time.
func CV(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// User builds a userParam.
func User(name string, value any) Param {
	return Param{Name: name, Value: value, User: true}
}

// resolve normalizes p into its final cvParam or userParam form.
func (p Param) resolve() Param {
	if p.User || p.Accession != "" {
		if p.Accession != "" && p.CVRef == "" {
			if term, ok := cv.TermByAccession(p.Accession); ok {
				p.CVRef = term.CVRef
				if p.Name == "" {
					p.Name = term.Name
				}
			} else {
				p.CVRef = "PSI-MS"
			}
		}
		return p
	}
	if term, ok := cv.TermByName(p.Name); ok {
		p.Accession = term.Accession
		p.CVRef = term.CVRef
		p.Name = term.Name
		return p
	}
	p.User = true
	return p
}

// isCV reports whether the resolved form of p is a cvParam.
func (p Param) isCV() bool {
	return !p.resolve().User
}

// write emits the resolved param element.
func (p Param) write(sink *xmlsink.Sink) error {
	r := p.resolve()

	var attrs []xmlsink.Attr
	tag := "userParam"
	if !r.User {
		tag = "cvParam"
		attrs = append(attrs,
			xmlsink.Attr{Name: "cvRef", Value: r.CVRef},
			xmlsink.Attr{Name: "accession", Value: r.Accession},
		)
	}
	attrs = append(attrs, xmlsink.Attr{Name: "name", Value: formatValue(r.Name)})
	if r.Value != nil {
		attrs = append(attrs, xmlsink.Attr{Name: "value", Value: formatValue(r.Value)})
	}
	if r.Unit != "" {
		unit, ok := cv.UnitByName(r.Unit)
		if !ok {
			unit = cv.Term{Accession: r.Unit, Name: r.Unit, CVRef: "UO"}
		}
		attrs = append(attrs,
			xmlsink.Attr{Name: "unitCvRef", Value: unit.CVRef},
			xmlsink.Attr{Name: "unitAccession", Value: unit.Accession},
			xmlsink.Attr{Name: "unitName", Value: unit.Name},
		)
	}

	if err := sink.Open(tag, attrs...); err != nil {
		return err
	}
	return sink.Close(tag)
}

func writeParams(sink *xmlsink.Sink, params []Param) error {
	for _, p := range params {
		if err := p.write(sink); err != nil {
			return err
		}
	}
	return nil
}

// cvTermParam builds the Param form of a catalog term.
func cvTermParam(term cv.Term, value any) Param {
	return Param{Name: term.Name, Accession: term.Accession, CVRef: term.CVRef, Value: value}
}

// formatValue renders a scalar as attribute or character data. Strings are
// NFC normalized so identical logical text always produces identical bytes.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return norm.NFC.String(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case fmt.Stringer:
		return norm.NFC.String(val.String())
	default:
		return norm.NFC.String(fmt.Sprintf("%v", val))
	}
}

// sortedKeys orders loose score maps so emission is deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// formatFloat keeps a trailing ".0" on integral values so a mass of 5 reads
// as "5.0", matching how downstream readers expect decimal fields.
func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
