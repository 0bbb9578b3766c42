package identity

import "fmt"

// Category identifies one referenceable entity kind. The set of categories
// is closed: every value is declared below, and auto-generated identifiers
// use the per-category prefix from idPrefixes.
type Category string

const (
	CategoryAnalysisSoftware              Category = "AnalysisSoftware"
	CategoryOrganization                  Category = "Organization"
	CategoryPerson                        Category = "Person"
	CategorySourceFile                    Category = "SourceFile"
	CategorySearchDatabase                Category = "SearchDatabase"
	CategorySpectraData                   Category = "SpectraData"
	CategoryEnzyme                        Category = "Enzyme"
	CategorySpectrumIdentificationProtocol Category = "SpectrumIdentificationProtocol"
	CategoryProteinDetectionProtocol      Category = "ProteinDetectionProtocol"
	CategoryDBSequence                    Category = "DBSequence"
	CategoryPeptide                       Category = "Peptide"
	CategoryPeptideEvidence               Category = "PeptideEvidence"
	CategorySpectrumIdentificationList    Category = "SpectrumIdentificationList"
	CategorySpectrumIdentificationResult  Category = "SpectrumIdentificationResult"
	CategorySpectrumIdentificationItem    Category = "SpectrumIdentificationItem"
	CategorySpectrumIdentification        Category = "SpectrumIdentification"
	CategoryProteinDetection              Category = "ProteinDetection"
	CategoryProteinDetectionList          Category = "ProteinDetectionList"
	CategoryProteinAmbiguityGroup         Category = "ProteinAmbiguityGroup"
	CategoryProteinDetectionHypothesis    Category = "ProteinDetectionHypothesis"
	CategoryMeasure                       Category = "Measure"
	CategoryTranslationTable              Category = "TranslationTable"
	CategoryDocument                      Category = "MzIdentML"
)

// Auto is the semantic-key sentinel requesting a synthesized identifier.
// Registering Auto always yields a fresh identifier within the category;
// the result is stored under itself so it can be resolved afterwards.
const Auto = ""

// idPrefixes formats synthesized identifiers per category, e.g. "PEP_3".
var idPrefixes = map[Category]string{
	CategoryAnalysisSoftware:               "SW",
	CategoryOrganization:                   "ORG",
	CategoryPerson:                         "PERSON",
	CategorySourceFile:                     "SF",
	CategorySearchDatabase:                 "SDB",
	CategorySpectraData:                    "SD",
	CategoryEnzyme:                         "ENZ",
	CategorySpectrumIdentificationProtocol: "SIP",
	CategoryProteinDetectionProtocol:       "PDP",
	CategoryDBSequence:                     "DBSEQ",
	CategoryPeptide:                        "PEP",
	CategoryPeptideEvidence:                "PE",
	CategorySpectrumIdentificationList:     "SIL",
	CategorySpectrumIdentificationResult:   "SIR",
	CategorySpectrumIdentificationItem:     "SII",
	CategorySpectrumIdentification:         "SI",
	CategoryProteinDetection:               "PD",
	CategoryProteinDetectionList:           "PDL",
	CategoryProteinAmbiguityGroup:          "PAG",
	CategoryProteinDetectionHypothesis:     "PDH",
	CategoryMeasure:                        "M",
	CategoryTranslationTable:               "TT",
	CategoryDocument:                       "MZID",
}

// Registry maps (Category, semantic key) to an assigned identifier for one
// document-write session.
//
// Registration is idempotent: the same key under the same category always
// returns the identifier assigned on first registration. Explicit keys are
// taken at face value and not checked for uniqueness; the schema validator
// downstream owns that check. Synthesized identifiers come from a per-category
// monotonic counter and are unique within their category by construction.
type Registry struct {
	ids      map[Category]map[string]string
	counters map[Category]int
}

// NewRegistry creates an empty registry for one document session.
func NewRegistry() *Registry {
	return &Registry{
		ids:      make(map[Category]map[string]string),
		counters: make(map[Category]int),
	}
}

// Register maps key to an identifier under cat and returns the identifier.
//
// If key is already registered the existing identifier is returned. If key
// is Auto a fresh identifier is synthesized, stored under itself, and
// returned. Any other key becomes its own identifier.
func (r *Registry) Register(cat Category, key string) string {
	byKey := r.ids[cat]
	if byKey == nil {
		byKey = make(map[string]string)
		r.ids[cat] = byKey
	}

	if key == Auto {
		id := r.nextID(cat)
		byKey[id] = id
		return id
	}

	if id, ok := byKey[key]; ok {
		return id
	}
	byKey[key] = key
	return key
}

// Resolve returns the identifier registered for key under cat.
// A key that was never registered is a dangling reference.
func (r *Registry) Resolve(cat Category, key string) (string, error) {
	if id, ok := r.ids[cat][key]; ok {
		return id, nil
	}
	return "", &ReferenceError{Category: cat, Key: key}
}

// Contains reports whether key is registered under cat.
func (r *Registry) Contains(cat Category, key string) bool {
	_, ok := r.ids[cat][key]
	return ok
}

func (r *Registry) nextID(cat Category) string {
	prefix, ok := idPrefixes[cat]
	if !ok {
		prefix = string(cat)
	}
	for {
		r.counters[cat]++
		id := fmt.Sprintf("%s_%d", prefix, r.counters[cat])
		if _, taken := r.ids[cat][id]; !taken {
			return id
		}
	}
}
