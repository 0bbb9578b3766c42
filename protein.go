package mzidstream

import (
	"log/slog"

	"github.com/roach88/mzidstream/internal/cv"
	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// ProteinDetectionListRecord describes the protein results container.
//
// The identified-protein count has exactly one source: either the Count
// field or a "count of identified proteins" param, never both. Neither is
// tolerated with a warning; both is an irreconcilable conflict.
type ProteinDetectionListRecord struct {
	ID     string  `yaml:"id"`
	Count  *int    `yaml:"count"`
	Params []Param `yaml:"-"`
}

// ProteinDetectionList opens the ProteinDetectionList section inside
// AnalysisData and runs fn inside it. The count policy is applied before
// the section materializes: a conflict emits nothing.
func (w *Writer) ProteinDetectionList(rec ProteinDetectionListRecord, fn func() error) error {
	params := rec.Params
	hasCountParam := false
	for _, p := range params {
		if p.resolve().Accession == cv.CountOfIdentifiedProteins.Accession {
			hasCountParam = true
			break
		}
	}
	switch {
	case rec.Count != nil && hasCountParam:
		return newConflictError("ProteinDetectionList",
			"count of identified proteins supplied both as a field and as a param")
	case rec.Count == nil && !hasCountParam:
		slog.Warn("count of identified proteins is missing",
			"element", "ProteinDetectionList",
			"accession", cv.CountOfIdentifiedProteins.Accession)
	case rec.Count != nil:
		params = append(params, cvTermParam(cv.CountOfIdentifiedProteins, *rec.Count))
	}

	return w.withSection(&section{
		tag:      "ProteinDetectionList",
		category: identity.CategoryProteinDetectionList,
		key:      rec.ID,
		params:   params,
	}, fn)
}

// PeptideHypothesisRecord ties a peptide evidence to the identification
// items supporting it. Every reference must be registered.
type PeptideHypothesisRecord struct {
	PeptideEvidenceRef             string   `yaml:"peptide_evidence_ref"`
	SpectrumIdentificationItemRefs []string `yaml:"spectrum_identification_item_refs"`
	Params                         []Param  `yaml:"-"`
}

// PeptideHypothesis is a built peptide hypothesis.
type PeptideHypothesis struct {
	peptideEvidenceRef string
	itemRefs           []string
	params             []Param
}

// PeptideHypothesisSource is either a built *PeptideHypothesis or a
// PeptideHypothesisRecord.
type PeptideHypothesisSource interface {
	ensurePeptideHypothesis(w *Writer) (*PeptideHypothesis, error)
}

func (p *PeptideHypothesis) ensurePeptideHypothesis(*Writer) (*PeptideHypothesis, error) {
	return p, nil
}

func (r PeptideHypothesisRecord) ensurePeptideHypothesis(w *Writer) (*PeptideHypothesis, error) {
	return w.NewPeptideHypothesis(r)
}

// NewPeptideHypothesis builds a PeptideHypothesis from rec, resolving its
// references.
func (w *Writer) NewPeptideHypothesis(rec PeptideHypothesisRecord) (*PeptideHypothesis, error) {
	evidenceRef, err := w.reg.Resolve(identity.CategoryPeptideEvidence, rec.PeptideEvidenceRef)
	if err != nil {
		return nil, err
	}
	itemRefs := make([]string, 0, len(rec.SpectrumIdentificationItemRefs))
	for _, ref := range rec.SpectrumIdentificationItemRefs {
		resolved, err := w.reg.Resolve(identity.CategorySpectrumIdentificationItem, ref)
		if err != nil {
			return nil, err
		}
		itemRefs = append(itemRefs, resolved)
	}
	return &PeptideHypothesis{
		peptideEvidenceRef: evidenceRef,
		itemRefs:           itemRefs,
		params:             rec.Params,
	}, nil
}

func (p *PeptideHypothesis) write(w *Writer) error {
	attrs := []xmlsink.Attr{{Name: "peptideEvidence_ref", Value: p.peptideEvidenceRef}}
	return w.writeElement("PeptideHypothesis", attrs, func() error {
		for _, ref := range p.itemRefs {
			err := w.writeElement("SpectrumIdentificationItemRef",
				[]xmlsink.Attr{{Name: "spectrumIdentificationItem_ref", Value: ref}}, nil)
			if err != nil {
				return err
			}
		}
		return writeParams(w.sink, p.params)
	})
}

// ProteinDetectionHypothesisRecord describes one detected protein backed by
// peptide hypotheses. DBSequenceRef must be registered.
type ProteinDetectionHypothesisRecord struct {
	ID                string                    `yaml:"id"`
	DBSequenceRef     string                    `yaml:"db_sequence_ref"`
	Name              string                    `yaml:"name"`
	PassThreshold     *bool                     `yaml:"pass_threshold"`
	PeptideHypotheses []PeptideHypothesisSource `yaml:"-"`
	Params            []Param                   `yaml:"-"`
}

// ProteinDetectionHypothesis is a built, registered detection hypothesis.
type ProteinDetectionHypothesis struct {
	id            string
	dbSequenceRef string
	name          string
	passThreshold bool
	hypotheses    []*PeptideHypothesis
	params        []Param
}

// ID returns the registered identifier.
func (p *ProteinDetectionHypothesis) ID() string { return p.id }

// ProteinDetectionHypothesisSource is either a built
// *ProteinDetectionHypothesis or a ProteinDetectionHypothesisRecord.
type ProteinDetectionHypothesisSource interface {
	ensureProteinDetectionHypothesis(w *Writer) (*ProteinDetectionHypothesis, error)
}

func (p *ProteinDetectionHypothesis) ensureProteinDetectionHypothesis(*Writer) (*ProteinDetectionHypothesis, error) {
	return p, nil
}

func (r ProteinDetectionHypothesisRecord) ensureProteinDetectionHypothesis(w *Writer) (*ProteinDetectionHypothesis, error) {
	return w.NewProteinDetectionHypothesis(r)
}

// NewProteinDetectionHypothesis builds and registers a detection hypothesis
// from rec. PassThreshold defaults to true.
func (w *Writer) NewProteinDetectionHypothesis(rec ProteinDetectionHypothesisRecord) (*ProteinDetectionHypothesis, error) {
	dbRef, err := w.reg.Resolve(identity.CategoryDBSequence, rec.DBSequenceRef)
	if err != nil {
		return nil, err
	}
	hypotheses := make([]*PeptideHypothesis, 0, len(rec.PeptideHypotheses))
	for _, src := range rec.PeptideHypotheses {
		h, err := src.ensurePeptideHypothesis(w)
		if err != nil {
			return nil, err
		}
		hypotheses = append(hypotheses, h)
	}
	passThreshold := true
	if rec.PassThreshold != nil {
		passThreshold = *rec.PassThreshold
	}
	return &ProteinDetectionHypothesis{
		id:            w.reg.Register(identity.CategoryProteinDetectionHypothesis, rec.ID),
		dbSequenceRef: dbRef,
		name:          rec.Name,
		passThreshold: passThreshold,
		hypotheses:    hypotheses,
		params:        rec.Params,
	}, nil
}

func (p *ProteinDetectionHypothesis) write(w *Writer) error {
	attrs := []xmlsink.Attr{
		{Name: "id", Value: p.id},
		{Name: "dBSequence_ref", Value: p.dbSequenceRef},
	}
	if p.name != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "name", Value: formatValue(p.name)})
	}
	attrs = append(attrs, xmlsink.Attr{Name: "passThreshold", Value: formatValue(p.passThreshold)})
	return w.writeElement("ProteinDetectionHypothesis", attrs, func() error {
		for _, h := range p.hypotheses {
			if err := h.write(w); err != nil {
				return err
			}
		}
		return writeParams(w.sink, p.params)
	})
}

// ProteinAmbiguityGroupRecord groups detection hypotheses that share
// peptide evidence.
type ProteinAmbiguityGroupRecord struct {
	ID         string                             `yaml:"id"`
	Hypotheses []ProteinDetectionHypothesisSource `yaml:"-"`
	Params     []Param                            `yaml:"-"`
}

// WriteProteinAmbiguityGroup builds, registers, and writes one
// ProteinAmbiguityGroup element. Call inside ProteinDetectionList.
func (w *Writer) WriteProteinAmbiguityGroup(rec ProteinAmbiguityGroupRecord) error {
	if err := w.requireOpen("ProteinAmbiguityGroup"); err != nil {
		return err
	}
	hypotheses := make([]*ProteinDetectionHypothesis, 0, len(rec.Hypotheses))
	for _, src := range rec.Hypotheses {
		h, err := src.ensureProteinDetectionHypothesis(w)
		if err != nil {
			return err
		}
		hypotheses = append(hypotheses, h)
	}

	id := w.reg.Register(identity.CategoryProteinAmbiguityGroup, rec.ID)
	return w.writeElement("ProteinAmbiguityGroup", []xmlsink.Attr{{Name: "id", Value: id}}, func() error {
		for _, h := range hypotheses {
			if err := h.write(w); err != nil {
				return err
			}
		}
		return writeParams(w.sink, rec.Params)
	})
}
