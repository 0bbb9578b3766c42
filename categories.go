package mzidstream

import "github.com/roach88/mzidstream/internal/identity"

// Category tags one referenceable entity kind. Identifiers are unique per
// (category, id) pair within one document.
type Category = identity.Category

// The closed set of categories. These are the values accepted by
// Writer.Register and reported by dangling-reference errors.
const (
	CategoryAnalysisSoftware               = identity.CategoryAnalysisSoftware
	CategoryOrganization                   = identity.CategoryOrganization
	CategoryPerson                         = identity.CategoryPerson
	CategorySourceFile                     = identity.CategorySourceFile
	CategorySearchDatabase                 = identity.CategorySearchDatabase
	CategorySpectraData                    = identity.CategorySpectraData
	CategoryEnzyme                         = identity.CategoryEnzyme
	CategorySpectrumIdentificationProtocol = identity.CategorySpectrumIdentificationProtocol
	CategoryProteinDetectionProtocol       = identity.CategoryProteinDetectionProtocol
	CategoryDBSequence                     = identity.CategoryDBSequence
	CategoryPeptide                        = identity.CategoryPeptide
	CategoryPeptideEvidence                = identity.CategoryPeptideEvidence
	CategorySpectrumIdentificationList     = identity.CategorySpectrumIdentificationList
	CategorySpectrumIdentificationResult   = identity.CategorySpectrumIdentificationResult
	CategorySpectrumIdentificationItem     = identity.CategorySpectrumIdentificationItem
	CategorySpectrumIdentification         = identity.CategorySpectrumIdentification
	CategoryProteinDetection               = identity.CategoryProteinDetection
	CategoryProteinDetectionList           = identity.CategoryProteinDetectionList
	CategoryProteinAmbiguityGroup          = identity.CategoryProteinAmbiguityGroup
	CategoryProteinDetectionHypothesis     = identity.CategoryProteinDetectionHypothesis
	CategoryMeasure                        = identity.CategoryMeasure
	CategoryTranslationTable               = identity.CategoryTranslationTable
)

// Auto requests a synthesized identifier: registering it always yields a
// fresh identifier within the category.
const Auto = identity.Auto
