package cv

import "strings"

// Vocabulary describes one controlled vocabulary declared in the document's
// cvList. ID is the value cvRef attributes point at.
type Vocabulary struct {
	ID       string
	FullName string
	URI      string
	Version  string
}

// DefaultVocabularies returns the vocabularies every mzIdentML document
// declares unless the caller overrides them: the PSI-MS vocabulary, UNIMOD
// for modifications, and the unit ontology.
func DefaultVocabularies() []Vocabulary {
	return []Vocabulary{
		{
			ID:       "PSI-MS",
			FullName: "Proteomics Standards Initiative Mass Spectrometry Vocabularies",
			URI:      "https://raw.githubusercontent.com/HUPO-PSI/psi-ms-CV/master/psi-ms.obo",
			Version:  "4.1.12",
		},
		{
			ID:       "UNIMOD",
			FullName: "UNIMOD",
			URI:      "http://www.unimod.org/obo/unimod.obo",
		},
		{
			ID:       "UO",
			FullName: "Unit Ontology",
			URI:      "http://ontologies.berkeleybop.org/uo.obo",
		},
	}
}

// Term is one controlled-vocabulary entry: the accession written into a
// cvParam, its canonical name, and the vocabulary it belongs to.
type Term struct {
	Accession string
	Name      string
	CVRef     string
}

// IsZero reports whether t carries no term.
func (t Term) IsZero() bool {
	return t.Accession == ""
}

// TermByName looks up a term by name, case-insensitively.
func TermByName(name string) (Term, bool) {
	t, ok := termIndex[strings.ToLower(name)]
	return t, ok
}

// TermByAccession looks up a term by its accession.
func TermByAccession(accession string) (Term, bool) {
	for _, t := range terms {
		if t.Accession == accession {
			return t, true
		}
	}
	return Term{}, false
}

// UnitByName looks up a unit term by name, case-insensitively.
func UnitByName(name string) (Term, bool) {
	t, ok := unitIndex[strings.ToLower(name)]
	return t, ok
}

var termIndex = buildIndex(terms)
var unitIndex = buildIndex(units)

func buildIndex(list []Term) map[string]Term {
	idx := make(map[string]Term, len(list))
	for _, t := range list {
		idx[strings.ToLower(t.Name)] = t
	}
	return idx
}
