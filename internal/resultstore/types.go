package resultstore

// Protein is one database sequence row.
type Protein struct {
	Accession   string
	Description string
	Sequence    string
}

// Modification is one residue modification on a peptide. A nil Location
// means the position is unknown or terminal.
type Modification struct {
	Location  *int
	MassDelta float64
	Name      string
}

// Peptide is one peptide row with its modifications.
type Peptide struct {
	ID            string
	Sequence      string
	Modifications []Modification
}

// Evidence ties a peptide to its position in a protein.
type Evidence struct {
	ID               string
	PeptideID        string
	ProteinAccession string
	Start            int
	End              int
	Pre              string
	Post             string
	IsDecoy          bool
}

// Match is one peptide-spectrum match with its scores.
type Match struct {
	ID             string
	SpectrumID     string
	PeptideID      string
	EvidenceID     string
	Charge         int
	ExperimentalMZ float64
	CalculatedMZ   *float64
	Rank           int
	PassThreshold  bool
	Scores         map[string]float64
}
