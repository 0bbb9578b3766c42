package mzidstream

import (
	"github.com/roach88/mzidstream/internal/cv"
	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// ppmThreshold divides bare numeric tolerances: values below it are read as
// fractional (parts-per-million after scaling), values at or above it as
// absolute dalton masses. The boundary itself is dalton.
const ppmThreshold = 1e-4

// Tolerance is a symmetric or asymmetric search tolerance with its unit.
type Tolerance struct {
	Plus  float64
	Minus float64
	Unit  cv.Term
}

// ToleranceRecord supplies a tolerance either as a bare Value, classified
// by the ppm threshold, or as explicit Plus/Minus with a named unit.
type ToleranceRecord struct {
	Value float64  `yaml:"value"`
	Plus  *float64 `yaml:"plus"`
	Minus *float64 `yaml:"minus"`
	Unit  string   `yaml:"unit"`
}

// build normalizes rec into a Tolerance.
func (rec ToleranceRecord) build(element string) (Tolerance, error) {
	if rec.Plus != nil || rec.Minus != nil {
		if rec.Plus == nil || rec.Minus == nil {
			return Tolerance{}, newBadRecordError(element, "plus and minus must be supplied together")
		}
		unitName := rec.Unit
		if unitName == "" {
			unitName = cv.UnitDalton.Name
		}
		unit, ok := cv.UnitByName(unitName)
		if !ok {
			return Tolerance{}, newBadRecordError(element, "unrecognized tolerance unit "+unitName)
		}
		return Tolerance{Plus: *rec.Plus, Minus: *rec.Minus, Unit: unit}, nil
	}
	if rec.Unit != "" {
		unit, ok := cv.UnitByName(rec.Unit)
		if !ok {
			return Tolerance{}, newBadRecordError(element, "unrecognized tolerance unit "+rec.Unit)
		}
		return Tolerance{Plus: rec.Value, Minus: rec.Value, Unit: unit}, nil
	}
	return ToleranceFromValue(rec.Value), nil
}

// ToleranceFromValue classifies a bare numeric tolerance. A value below
// 1e-4 is a relative error and becomes parts-per-million scaled by 1e6; a
// value at or above it is an absolute dalton mass, unchanged.
func ToleranceFromValue(v float64) Tolerance {
	if v < ppmThreshold {
		return Tolerance{Plus: v * 1e6, Minus: v * 1e6, Unit: cv.UnitPartsPerMillion}
	}
	return Tolerance{Plus: v, Minus: v, Unit: cv.UnitDalton}
}

// write emits the paired plus/minus tolerance params inside tag.
func (t Tolerance) write(w *Writer, tag string) error {
	return w.writeElement(tag, nil, func() error {
		plus := cvTermParam(cv.SearchTolerancePlusValue, t.Plus)
		plus.Unit = t.Unit.Name
		if err := plus.write(w.sink); err != nil {
			return err
		}
		minus := cvTermParam(cv.SearchToleranceMinusValue, t.Minus)
		minus.Unit = t.Unit.Name
		return minus.write(w.sink)
	})
}

// EnzymeRecord describes one cleavage enzyme.
type EnzymeRecord struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	SiteRegexp      string  `yaml:"site_regexp"`
	MissedCleavages *int    `yaml:"missed_cleavages"`
	SemiSpecific    bool    `yaml:"semi_specific"`
	Params          []Param `yaml:"-"`
}

// Enzyme is a built, registered enzyme entity.
type Enzyme struct {
	id              string
	name            string
	siteRegexp      string
	missedCleavages *int
	semiSpecific    bool
	params          []Param
}

// ID returns the registered identifier.
func (e *Enzyme) ID() string { return e.id }

// EnzymeSource is either a built *Enzyme or an EnzymeRecord.
type EnzymeSource interface {
	ensureEnzyme(w *Writer) (*Enzyme, error)
}

func (e *Enzyme) ensureEnzyme(*Writer) (*Enzyme, error) { return e, nil }

func (r EnzymeRecord) ensureEnzyme(w *Writer) (*Enzyme, error) {
	return w.NewEnzyme(r)
}

// NewEnzyme builds and registers an Enzyme from rec.
func (w *Writer) NewEnzyme(rec EnzymeRecord) (*Enzyme, error) {
	return &Enzyme{
		id:              w.reg.Register(identity.CategoryEnzyme, rec.ID),
		name:            rec.Name,
		siteRegexp:      rec.SiteRegexp,
		missedCleavages: rec.MissedCleavages,
		semiSpecific:    rec.SemiSpecific,
		params:          rec.Params,
	}, nil
}

func (e *Enzyme) write(w *Writer) error {
	attrs := []xmlsink.Attr{{Name: "id", Value: e.id}}
	if e.missedCleavages != nil {
		attrs = append(attrs, xmlsink.Attr{Name: "missedCleavages", Value: formatValue(*e.missedCleavages)})
	}
	if e.semiSpecific {
		attrs = append(attrs, xmlsink.Attr{Name: "semiSpecific", Value: "true"})
	}
	return w.writeElement("Enzyme", attrs, func() error {
		if e.siteRegexp != "" {
			err := w.writeElement("SiteRegexp", nil, func() error {
				return w.sink.Text(e.siteRegexp)
			})
			if err != nil {
				return err
			}
		}
		if e.name != "" {
			err := w.writeElement("EnzymeName", nil, func() error {
				return CV(e.name, nil).write(w.sink)
			})
			if err != nil {
				return err
			}
		}
		return writeParams(w.sink, e.params)
	})
}

// SearchModificationRecord describes one modification considered during the
// search. A Name missing from the catalog is emitted as the
// "unknown modification" term carrying the name as its value.
type SearchModificationRecord struct {
	MassDelta float64 `yaml:"mass_delta"`
	FixedMod  bool    `yaml:"fixed"`
	Residues  string  `yaml:"residues"`
	Name      string  `yaml:"name"`
	Params    []Param `yaml:"-"`
}

// SearchModification is a built search-modification entity. It carries no
// identifier; nothing references it.
type SearchModification struct {
	massDelta float64
	fixedMod  bool
	residues  string
	name      string
	params    []Param
}

// SearchModificationSource is either a built *SearchModification or a
// SearchModificationRecord.
type SearchModificationSource interface {
	ensureSearchModification(w *Writer) (*SearchModification, error)
}

func (s *SearchModification) ensureSearchModification(*Writer) (*SearchModification, error) {
	return s, nil
}

func (r SearchModificationRecord) ensureSearchModification(w *Writer) (*SearchModification, error) {
	return &SearchModification{
		massDelta: r.MassDelta,
		fixedMod:  r.FixedMod,
		residues:  r.Residues,
		name:      r.Name,
		params:    r.Params,
	}, nil
}

func (s *SearchModification) write(w *Writer) error {
	residues := s.residues
	if residues == "" {
		residues = "."
	}
	attrs := []xmlsink.Attr{
		{Name: "massDelta", Value: formatValue(s.massDelta)},
		{Name: "residues", Value: formatValue(residues)},
		{Name: "fixedMod", Value: formatValue(s.fixedMod)},
	}
	return w.writeElement("SearchModification", attrs, func() error {
		if s.name != "" {
			if err := modificationParam(s.name).write(w.sink); err != nil {
				return err
			}
		}
		return writeParams(w.sink, s.params)
	})
}

// writeThreshold emits a Threshold element; empty params mean no threshold
// was applied, stated explicitly with the no-threshold term.
func writeThreshold(w *Writer, params []Param) error {
	return w.writeElement("Threshold", nil, func() error {
		if len(params) == 0 {
			return cvTermParam(cv.NoThreshold, nil).write(w.sink)
		}
		return writeParams(w.sink, params)
	})
}

// SpectrumIdentificationProtocolRecord describes the identification
// protocol: search type, tolerances, modifications, and enzymes.
// AnalysisSoftwareRef must name a registered AnalysisSoftware.
type SpectrumIdentificationProtocolRecord struct {
	ID                     string                     `yaml:"id"`
	AnalysisSoftwareRef    string                     `yaml:"analysis_software_ref"`
	SearchType             string                     `yaml:"search_type"`
	AdditionalSearchParams []Param                    `yaml:"-"`
	ModificationParams     []SearchModificationSource `yaml:"-"`
	Enzymes                []EnzymeSource             `yaml:"-"`
	FragmentTolerance      *ToleranceRecord           `yaml:"fragment_tolerance"`
	ParentTolerance        *ToleranceRecord           `yaml:"parent_tolerance"`
	Threshold              []Param                    `yaml:"-"`
}

// WriteSpectrumIdentificationProtocol builds, registers, and writes one
// SpectrumIdentificationProtocol element. Call inside
// AnalysisProtocolCollection.
func (w *Writer) WriteSpectrumIdentificationProtocol(rec SpectrumIdentificationProtocolRecord) error {
	if err := w.requireOpen("SpectrumIdentificationProtocol"); err != nil {
		return err
	}
	swRef, err := w.reg.Resolve(identity.CategoryAnalysisSoftware, rec.AnalysisSoftwareRef)
	if err != nil {
		return err
	}

	searchType := rec.SearchType
	if searchType == "" {
		searchType = cv.MSMSSearch.Name
	}

	mods := make([]*SearchModification, 0, len(rec.ModificationParams))
	for _, src := range rec.ModificationParams {
		m, err := src.ensureSearchModification(w)
		if err != nil {
			return err
		}
		mods = append(mods, m)
	}
	enzymes := make([]*Enzyme, 0, len(rec.Enzymes))
	for _, src := range rec.Enzymes {
		e, err := src.ensureEnzyme(w)
		if err != nil {
			return err
		}
		enzymes = append(enzymes, e)
	}

	var fragment, parent *Tolerance
	if rec.FragmentTolerance != nil {
		t, err := rec.FragmentTolerance.build("FragmentTolerance")
		if err != nil {
			return err
		}
		fragment = &t
	}
	if rec.ParentTolerance != nil {
		t, err := rec.ParentTolerance.build("ParentTolerance")
		if err != nil {
			return err
		}
		parent = &t
	}

	id := w.reg.Register(identity.CategorySpectrumIdentificationProtocol, rec.ID)
	attrs := []xmlsink.Attr{
		{Name: "id", Value: id},
		{Name: "analysisSoftware_ref", Value: swRef},
	}
	return w.writeElement("SpectrumIdentificationProtocol", attrs, func() error {
		err := w.writeElement("SearchType", nil, func() error {
			return CV(searchType, nil).write(w.sink)
		})
		if err != nil {
			return err
		}
		if len(rec.AdditionalSearchParams) > 0 {
			err := w.writeElement("AdditionalSearchParams", nil, func() error {
				return writeParams(w.sink, rec.AdditionalSearchParams)
			})
			if err != nil {
				return err
			}
		}
		if len(mods) > 0 {
			err := w.writeElement("ModificationParams", nil, func() error {
				for _, m := range mods {
					if err := m.write(w); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		if len(enzymes) > 0 {
			err := w.writeElement("Enzymes", nil, func() error {
				for _, e := range enzymes {
					if err := e.write(w); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		if fragment != nil {
			if err := fragment.write(w, "FragmentTolerance"); err != nil {
				return err
			}
		}
		if parent != nil {
			if err := parent.write(w, "ParentTolerance"); err != nil {
				return err
			}
		}
		return writeThreshold(w, rec.Threshold)
	})
}

// ProteinDetectionProtocolRecord describes the protein detection protocol.
type ProteinDetectionProtocolRecord struct {
	ID                  string  `yaml:"id"`
	AnalysisSoftwareRef string  `yaml:"analysis_software_ref"`
	AnalysisParams      []Param `yaml:"-"`
	Threshold           []Param `yaml:"-"`
}

// WriteProteinDetectionProtocol builds, registers, and writes one
// ProteinDetectionProtocol element. Call inside AnalysisProtocolCollection.
func (w *Writer) WriteProteinDetectionProtocol(rec ProteinDetectionProtocolRecord) error {
	if err := w.requireOpen("ProteinDetectionProtocol"); err != nil {
		return err
	}
	swRef, err := w.reg.Resolve(identity.CategoryAnalysisSoftware, rec.AnalysisSoftwareRef)
	if err != nil {
		return err
	}
	id := w.reg.Register(identity.CategoryProteinDetectionProtocol, rec.ID)
	attrs := []xmlsink.Attr{
		{Name: "id", Value: id},
		{Name: "analysisSoftware_ref", Value: swRef},
	}
	return w.writeElement("ProteinDetectionProtocol", attrs, func() error {
		if len(rec.AnalysisParams) > 0 {
			err := w.writeElement("AnalysisParams", nil, func() error {
				return writeParams(w.sink, rec.AnalysisParams)
			})
			if err != nil {
				return err
			}
		}
		return writeThreshold(w, rec.Threshold)
	})
}
