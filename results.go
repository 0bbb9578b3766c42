package mzidstream

import (
	"github.com/roach88/mzidstream/internal/cv"
	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// Measure is one column of the fragmentation measure table.
type Measure struct {
	ID   string
	Term cv.Term
}

// DefaultMeasures returns the standard fragmentation table columns:
// product ion m/z, intensity, and m/z error.
func DefaultMeasures() []Measure {
	return []Measure{
		{ID: "M_MZ", Term: cv.ProductIonMZ},
		{ID: "M_INTENSITY", Term: cv.ProductIonIntensity},
		{ID: "M_ERROR", Term: cv.ProductIonMZError},
	}
}

// writeFragmentationTable registers each measure and emits the table. The
// spectrum identification list section injects it as its first child.
func writeFragmentationTable(w *Writer, measures []Measure) error {
	return w.writeElement("FragmentationTable", nil, func() error {
		for _, m := range measures {
			id := w.reg.Register(identity.CategoryMeasure, m.ID)
			err := w.writeElement("Measure", []xmlsink.Attr{{Name: "id", Value: id}}, func() error {
				return cvTermParam(m.Term, nil).write(w.sink)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SpectrumIdentificationListRecord describes the results-list container.
// Measures defaults to DefaultMeasures when nil.
type SpectrumIdentificationListRecord struct {
	ID                   string    `yaml:"id"`
	Name                 string    `yaml:"name"`
	NumSequencesSearched int64     `yaml:"num_sequences_searched"`
	Measures             []Measure `yaml:"-"`
	Params               []Param   `yaml:"-"`
}

// SpectrumIdentificationList opens the SpectrumIdentificationList section
// inside AnalysisData and runs fn inside it. The section registers its
// identifier, emits its params, and writes the fragmentation measure table
// before yielding; the body then streams identification results.
func (w *Writer) SpectrumIdentificationList(rec SpectrumIdentificationListRecord, fn func() error) error {
	measures := rec.Measures
	if measures == nil {
		measures = DefaultMeasures()
	}

	var attrs []xmlsink.Attr
	if rec.Name != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "name", Value: formatValue(rec.Name)})
	}
	if rec.NumSequencesSearched > 0 {
		attrs = append(attrs, xmlsink.Attr{
			Name:  "numSequencesSearched",
			Value: formatValue(rec.NumSequencesSearched),
		})
	}

	return w.withSection(&section{
		tag:      "SpectrumIdentificationList",
		category: identity.CategorySpectrumIdentificationList,
		key:      rec.ID,
		attrs:    attrs,
		params:   rec.Params,
		preamble: func(w *Writer) error {
			return writeFragmentationTable(w, measures)
		},
	}, fn)
}

// SpectrumIdentificationItemRecord describes one candidate match for a
// spectrum. PeptideRef and every PeptideEvidenceRef must be registered.
// Scores maps score names onto values; known names become cvParams.
type SpectrumIdentificationItemRecord struct {
	ID                       string         `yaml:"id"`
	PeptideRef               string         `yaml:"peptide_ref"`
	PeptideEvidenceRefs      []string       `yaml:"peptide_evidence_refs"`
	ExperimentalMassToCharge float64        `yaml:"experimental_mass_to_charge"`
	CalculatedMassToCharge   *float64       `yaml:"calculated_mass_to_charge"`
	ChargeState              int            `yaml:"charge_state"`
	Rank                     int            `yaml:"rank"`
	PassThreshold            *bool          `yaml:"pass_threshold"`
	Scores                   map[string]any `yaml:"scores"`
	Params                   []Param        `yaml:"-"`
}

// SpectrumIdentificationItem is a built, registered identification item.
type SpectrumIdentificationItem struct {
	id                  string
	peptideRef          string
	peptideEvidenceRefs []string
	experimentalMZ      float64
	calculatedMZ        *float64
	chargeState         int
	rank                int
	passThreshold       bool
	params              []Param
}

// ID returns the registered identifier.
func (s *SpectrumIdentificationItem) ID() string { return s.id }

// SpectrumIdentificationItemSource is either a built
// *SpectrumIdentificationItem or a SpectrumIdentificationItemRecord.
type SpectrumIdentificationItemSource interface {
	ensureSpectrumIdentificationItem(w *Writer) (*SpectrumIdentificationItem, error)
}

func (s *SpectrumIdentificationItem) ensureSpectrumIdentificationItem(*Writer) (*SpectrumIdentificationItem, error) {
	return s, nil
}

func (r SpectrumIdentificationItemRecord) ensureSpectrumIdentificationItem(w *Writer) (*SpectrumIdentificationItem, error) {
	return w.NewSpectrumIdentificationItem(r)
}

// NewSpectrumIdentificationItem builds and registers an identification item
// from rec. Rank defaults to 1 and passThreshold to true.
func (w *Writer) NewSpectrumIdentificationItem(rec SpectrumIdentificationItemRecord) (*SpectrumIdentificationItem, error) {
	peptideRef, err := w.reg.Resolve(identity.CategoryPeptide, rec.PeptideRef)
	if err != nil {
		return nil, err
	}
	evidenceRefs := make([]string, 0, len(rec.PeptideEvidenceRefs))
	for _, ref := range rec.PeptideEvidenceRefs {
		resolved, err := w.reg.Resolve(identity.CategoryPeptideEvidence, ref)
		if err != nil {
			return nil, err
		}
		evidenceRefs = append(evidenceRefs, resolved)
	}

	rank := rec.Rank
	if rank == 0 {
		rank = 1
	}
	passThreshold := true
	if rec.PassThreshold != nil {
		passThreshold = *rec.PassThreshold
	}

	params := make([]Param, 0, len(rec.Scores)+len(rec.Params))
	for _, name := range sortedKeys(rec.Scores) {
		params = append(params, CV(name, rec.Scores[name]))
	}
	params = append(params, rec.Params...)

	return &SpectrumIdentificationItem{
		id:                  w.reg.Register(identity.CategorySpectrumIdentificationItem, rec.ID),
		peptideRef:          peptideRef,
		peptideEvidenceRefs: evidenceRefs,
		experimentalMZ:      rec.ExperimentalMassToCharge,
		calculatedMZ:        rec.CalculatedMassToCharge,
		chargeState:         rec.ChargeState,
		rank:                rank,
		passThreshold:       passThreshold,
		params:              params,
	}, nil
}

func (s *SpectrumIdentificationItem) write(w *Writer) error {
	attrs := []xmlsink.Attr{
		{Name: "id", Value: s.id},
		{Name: "rank", Value: formatValue(s.rank)},
		{Name: "chargeState", Value: formatValue(s.chargeState)},
		{Name: "peptide_ref", Value: s.peptideRef},
		{Name: "experimentalMassToCharge", Value: formatValue(s.experimentalMZ)},
	}
	if s.calculatedMZ != nil {
		attrs = append(attrs, xmlsink.Attr{
			Name:  "calculatedMassToCharge",
			Value: formatValue(*s.calculatedMZ),
		})
	}
	attrs = append(attrs, xmlsink.Attr{Name: "passThreshold", Value: formatValue(s.passThreshold)})

	return w.writeElement("SpectrumIdentificationItem", attrs, func() error {
		for _, ref := range s.peptideEvidenceRefs {
			err := w.writeElement("PeptideEvidenceRef",
				[]xmlsink.Attr{{Name: "peptideEvidence_ref", Value: ref}}, nil)
			if err != nil {
				return err
			}
		}
		return writeParams(w.sink, s.params)
	})
}

// SpectrumIdentificationResultRecord describes all candidate matches for
// one spectrum. SpectraDataRef must be registered.
type SpectrumIdentificationResultRecord struct {
	ID             string                             `yaml:"id"`
	SpectrumID     string                             `yaml:"spectrum_id"`
	SpectraDataRef string                             `yaml:"spectra_data_ref"`
	Items          []SpectrumIdentificationItemSource `yaml:"-"`
	Params         []Param                            `yaml:"-"`
}

// WriteSpectrumIdentificationResult builds, registers, and writes one
// SpectrumIdentificationResult element with its items. Call inside
// SpectrumIdentificationList.
func (w *Writer) WriteSpectrumIdentificationResult(rec SpectrumIdentificationResultRecord) error {
	if err := w.requireOpen("SpectrumIdentificationResult"); err != nil {
		return err
	}
	if rec.SpectrumID == "" {
		return newBadRecordError("SpectrumIdentificationResult", "spectrumID is required")
	}
	spectraRef, err := w.reg.Resolve(identity.CategorySpectraData, rec.SpectraDataRef)
	if err != nil {
		return err
	}
	items := make([]*SpectrumIdentificationItem, 0, len(rec.Items))
	for _, src := range rec.Items {
		item, err := src.ensureSpectrumIdentificationItem(w)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	id := w.reg.Register(identity.CategorySpectrumIdentificationResult, rec.ID)
	attrs := []xmlsink.Attr{
		{Name: "id", Value: id},
		{Name: "spectrumID", Value: formatValue(rec.SpectrumID)},
		{Name: "spectraData_ref", Value: spectraRef},
	}
	return w.writeElement("SpectrumIdentificationResult", attrs, func() error {
		for _, item := range items {
			if err := item.write(w); err != nil {
				return err
			}
		}
		return writeParams(w.sink, rec.Params)
	})
}
