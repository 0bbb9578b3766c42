package mzidstream

import (
	"github.com/roach88/mzidstream/internal/cv"
	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// DBSequenceRecord describes one database sequence (a protein entry).
// SearchDatabaseRef must name a registered SearchDatabase.
type DBSequenceRecord struct {
	ID                string  `yaml:"id"`
	Accession         string  `yaml:"accession"`
	SearchDatabaseRef string  `yaml:"search_database_ref"`
	Sequence          string  `yaml:"sequence"`
	Description       string  `yaml:"description"`
	Params            []Param `yaml:"-"`
}

// WriteDBSequence builds, registers, and writes one DBSequence element.
// Call inside SequenceCollection.
func (w *Writer) WriteDBSequence(rec DBSequenceRecord) error {
	if err := w.requireOpen("DBSequence"); err != nil {
		return err
	}
	if rec.Accession == "" {
		return newBadRecordError("DBSequence", "accession is required")
	}
	dbRef, err := w.reg.Resolve(identity.CategorySearchDatabase, rec.SearchDatabaseRef)
	if err != nil {
		return err
	}
	id := w.reg.Register(identity.CategoryDBSequence, rec.ID)

	attrs := []xmlsink.Attr{
		{Name: "id", Value: id},
		{Name: "accession", Value: formatValue(rec.Accession)},
		{Name: "searchDatabase_ref", Value: dbRef},
	}
	if rec.Sequence != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "length", Value: formatValue(len(rec.Sequence))})
	}
	params := rec.Params
	if rec.Description != "" {
		params = append([]Param{User("protein description", rec.Description)}, params...)
	}
	return w.writeElement("DBSequence", attrs, func() error {
		if rec.Sequence != "" {
			err := w.writeElement("Seq", nil, func() error {
				return w.sink.Text(formatValue(rec.Sequence))
			})
			if err != nil {
				return err
			}
		}
		return writeParams(w.sink, params)
	})
}

// ModificationRecord describes one residue modification on a peptide.
// Location counts from 1; 0 is the n-terminus. A nil Location omits the
// attribute. A Name found in the catalog becomes its canonical term; an
// unknown Name is carried as the "unknown modification" term's value.
type ModificationRecord struct {
	Location              *int    `yaml:"location"`
	MonoisotopicMassDelta float64 `yaml:"monoisotopic_mass_delta"`
	Name                  string  `yaml:"name"`
	Params                []Param `yaml:"-"`
}

func (m ModificationRecord) write(w *Writer) error {
	var attrs []xmlsink.Attr
	if m.Location != nil {
		attrs = append(attrs, xmlsink.Attr{Name: "location", Value: formatValue(*m.Location)})
	}
	if m.MonoisotopicMassDelta != 0 {
		attrs = append(attrs, xmlsink.Attr{
			Name:  "monoisotopicMassDelta",
			Value: formatValue(m.MonoisotopicMassDelta),
		})
	}
	return w.writeElement("Modification", attrs, func() error {
		if m.Name != "" {
			if err := modificationParam(m.Name).write(w.sink); err != nil {
				return err
			}
		}
		return writeParams(w.sink, m.Params)
	})
}

// modificationParam resolves a modification name: catalog hit becomes the
// canonical term, a miss becomes the unknown-modification term carrying the
// supplied name as its value.
func modificationParam(name string) Param {
	if term, ok := cv.TermByName(name); ok {
		return cvTermParam(term, nil)
	}
	return cvTermParam(cv.UnknownModification, name)
}

// PeptideRecord describes one Peptide entity.
type PeptideRecord struct {
	ID              string               `yaml:"id"`
	PeptideSequence string               `yaml:"peptide_sequence"`
	Modifications   []ModificationRecord `yaml:"modifications"`
	Params          []Param              `yaml:"-"`
}

// WritePeptide builds, registers, and writes one Peptide element.
// Call inside SequenceCollection, after the DBSequences.
func (w *Writer) WritePeptide(rec PeptideRecord) error {
	if err := w.requireOpen("Peptide"); err != nil {
		return err
	}
	if rec.PeptideSequence == "" {
		return newBadRecordError("Peptide", "peptide sequence is required")
	}
	id := w.reg.Register(identity.CategoryPeptide, rec.ID)

	return w.writeElement("Peptide", []xmlsink.Attr{{Name: "id", Value: id}}, func() error {
		err := w.writeElement("PeptideSequence", nil, func() error {
			return w.sink.Text(formatValue(rec.PeptideSequence))
		})
		if err != nil {
			return err
		}
		for _, mod := range rec.Modifications {
			if err := mod.write(w); err != nil {
				return err
			}
		}
		return writeParams(w.sink, rec.Params)
	})
}

// PeptideEvidenceRecord links a Peptide to its position in a DBSequence.
// PeptideRef and DBSequenceRef must name registered entities.
type PeptideEvidenceRecord struct {
	ID                  string  `yaml:"id"`
	PeptideRef          string  `yaml:"peptide_ref"`
	DBSequenceRef       string  `yaml:"db_sequence_ref"`
	Start               int     `yaml:"start"`
	End                 int     `yaml:"end"`
	Pre                 string  `yaml:"pre"`
	Post                string  `yaml:"post"`
	IsDecoy             bool    `yaml:"is_decoy"`
	Frame               *int    `yaml:"frame"`
	TranslationTableRef string  `yaml:"translation_table_ref"`
	Params              []Param `yaml:"-"`
}

// WritePeptideEvidence builds, registers, and writes one PeptideEvidence
// element. Call inside SequenceCollection, after the Peptides it references.
func (w *Writer) WritePeptideEvidence(rec PeptideEvidenceRecord) error {
	if err := w.requireOpen("PeptideEvidence"); err != nil {
		return err
	}
	peptideRef, err := w.reg.Resolve(identity.CategoryPeptide, rec.PeptideRef)
	if err != nil {
		return err
	}
	dbRef, err := w.reg.Resolve(identity.CategoryDBSequence, rec.DBSequenceRef)
	if err != nil {
		return err
	}
	id := w.reg.Register(identity.CategoryPeptideEvidence, rec.ID)

	attrs := []xmlsink.Attr{
		{Name: "id", Value: id},
		{Name: "peptide_ref", Value: peptideRef},
		{Name: "dBSequence_ref", Value: dbRef},
		{Name: "start", Value: formatValue(rec.Start)},
		{Name: "end", Value: formatValue(rec.End)},
		{Name: "isDecoy", Value: formatValue(rec.IsDecoy)},
	}
	if rec.Pre != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "pre", Value: formatValue(rec.Pre)})
	}
	if rec.Post != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "post", Value: formatValue(rec.Post)})
	}
	if rec.Frame != nil {
		attrs = append(attrs, xmlsink.Attr{Name: "frame", Value: formatValue(*rec.Frame)})
	}
	if rec.TranslationTableRef != "" {
		ttRef, err := w.reg.Resolve(identity.CategoryTranslationTable, rec.TranslationTableRef)
		if err != nil {
			return err
		}
		attrs = append(attrs, xmlsink.Attr{Name: "translationTable_ref", Value: ttRef})
	}
	return w.writeLeaf("PeptideEvidence", attrs, rec.Params)
}
