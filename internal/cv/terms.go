package cv

// Terms the writer reaches for by name. Exported vars cover the ones
// components emit directly; the terms slice additionally carries names
// callers commonly supply in records (scores, enzymes, modifications,
// file formats) so they resolve to cvParams instead of userParams.
var (
	CountOfIdentifiedProteins = Term{Accession: "MS:1002404", Name: "count of identified proteins", CVRef: "PSI-MS"}

	SearchTolerancePlusValue  = Term{Accession: "MS:1001412", Name: "search tolerance plus value", CVRef: "PSI-MS"}
	SearchToleranceMinusValue = Term{Accession: "MS:1001413", Name: "search tolerance minus value", CVRef: "PSI-MS"}

	MSMSSearch          = Term{Accession: "MS:1001083", Name: "ms-ms search", CVRef: "PSI-MS"}
	NoThreshold         = Term{Accession: "MS:1001494", Name: "no threshold", CVRef: "PSI-MS"}
	UnknownModification = Term{Accession: "MS:1001460", Name: "unknown modification", CVRef: "PSI-MS"}

	ResearcherRole = Term{Accession: "MS:1001271", Name: "researcher", CVRef: "PSI-MS"}

	ProductIonMZ        = Term{Accession: "MS:1001225", Name: "product ion m/z", CVRef: "PSI-MS"}
	ProductIonIntensity = Term{Accession: "MS:1001226", Name: "product ion intensity", CVRef: "PSI-MS"}
	ProductIonMZError   = Term{Accession: "MS:1001227", Name: "product ion m/z error", CVRef: "PSI-MS"}

	UnitPartsPerMillion = Term{Accession: "UO:0000169", Name: "parts per million", CVRef: "UO"}
	UnitDalton          = Term{Accession: "UO:0000221", Name: "dalton", CVRef: "UO"}
)

var terms = []Term{
	CountOfIdentifiedProteins,
	SearchTolerancePlusValue,
	SearchToleranceMinusValue,
	MSMSSearch,
	NoThreshold,
	UnknownModification,
	ResearcherRole,
	ProductIonMZ,
	ProductIonIntensity,
	ProductIonMZError,

	// File and identifier formats.
	{Accession: "MS:1000584", Name: "mzML format", CVRef: "PSI-MS"},
	{Accession: "MS:1001062", Name: "Mascot MGF format", CVRef: "PSI-MS"},
	{Accession: "MS:1001348", Name: "FASTA format", CVRef: "PSI-MS"},
	{Accession: "MS:1001530", Name: "mzML unique identifier", CVRef: "PSI-MS"},

	// Analysis software.
	{Accession: "MS:1001207", Name: "Mascot", CVRef: "PSI-MS"},
	{Accession: "MS:1001208", Name: "SEQUEST", CVRef: "PSI-MS"},
	{Accession: "MS:1001476", Name: "X!Tandem", CVRef: "PSI-MS"},
	{Accession: "MS:1002251", Name: "Comet", CVRef: "PSI-MS"},
	{Accession: "MS:1002048", Name: "MS-GF+", CVRef: "PSI-MS"},

	// Enzymes.
	{Accession: "MS:1001251", Name: "Trypsin", CVRef: "PSI-MS"},
	{Accession: "MS:1001309", Name: "Lys-C", CVRef: "PSI-MS"},

	// Search modifications.
	{Accession: "UNIMOD:4", Name: "Carbamidomethyl", CVRef: "UNIMOD"},
	{Accession: "UNIMOD:35", Name: "Oxidation", CVRef: "UNIMOD"},
	{Accession: "UNIMOD:21", Name: "Phospho", CVRef: "UNIMOD"},
	{Accession: "UNIMOD:1", Name: "Acetyl", CVRef: "UNIMOD"},

	// Identification scores.
	{Accession: "MS:1001171", Name: "Mascot:score", CVRef: "PSI-MS"},
	{Accession: "MS:1001172", Name: "Mascot:expectation value", CVRef: "PSI-MS"},
	{Accession: "MS:1001155", Name: "SEQUEST:xcorr", CVRef: "PSI-MS"},
	{Accession: "MS:1001330", Name: "X!Tandem:expect", CVRef: "PSI-MS"},
	{Accession: "MS:1001331", Name: "X!Tandem:hyperscore", CVRef: "PSI-MS"},
	{Accession: "MS:1002044", Name: "MS-GF:SpecEValue", CVRef: "PSI-MS"},
}

var units = []Term{
	UnitPartsPerMillion,
	UnitDalton,
	{Accession: "UO:0000010", Name: "second", CVRef: "UO"},
	{Accession: "UO:0000031", Name: "minute", CVRef: "UO"},
	{Accession: "UO:0000266", Name: "electronvolt", CVRef: "UO"},
	{Accession: "MS:1000040", Name: "m/z", CVRef: "PSI-MS"},
}
