package mzidstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceWriter seeds the registry with a search database so DBSequence
// records resolve.
func sequenceWriter(t *testing.T) (*Writer, *strings.Builder) {
	t.Helper()
	var sb strings.Builder
	w := NewWriter(&sb, WithDocumentID("MZID_TEST"))
	require.NoError(t, w.Begin())
	w.Register(CategorySearchDatabase, "SDB_1")
	return w, &sb
}

func TestWriteDBSequence(t *testing.T) {
	w, sb := sequenceWriter(t)

	err := w.SequenceCollection(func() error {
		return w.WriteDBSequence(DBSequenceRecord{
			ID:                "DBSEQ_1",
			Accession:         "P69905",
			SearchDatabaseRef: "SDB_1",
			Sequence:          "MVLSPADKTN",
			Description:       "Hemoglobin subunit alpha",
		})
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := sb.String()
	assert.Contains(t, out, `<DBSequence id="DBSEQ_1" accession="P69905" searchDatabase_ref="SDB_1" length="10">`)
	assert.Contains(t, out, "<Seq>MVLSPADKTN</Seq>")
	assert.Contains(t, out, `name="protein description" value="Hemoglobin subunit alpha"`)
}

func TestWriteDBSequence_AccessionRequired(t *testing.T) {
	w, _ := sequenceWriter(t)

	err := w.SequenceCollection(func() error {
		return w.WriteDBSequence(DBSequenceRecord{ID: "DBSEQ_1", SearchDatabaseRef: "SDB_1"})
	})
	require.Error(t, err)
	assert.True(t, IsBadRecord(err))
}

func TestWriteDBSequence_DanglingDatabase(t *testing.T) {
	w, _ := sequenceWriter(t)

	err := w.SequenceCollection(func() error {
		return w.WriteDBSequence(DBSequenceRecord{
			ID:                "DBSEQ_1",
			Accession:         "P69905",
			SearchDatabaseRef: "SDB_MISSING",
		})
	})
	require.Error(t, err)
	assert.True(t, IsDanglingReference(err))
}

func TestWritePeptide_Modifications(t *testing.T) {
	w, sb := sequenceWriter(t)

	loc := 3
	err := w.SequenceCollection(func() error {
		return w.WritePeptide(PeptideRecord{
			ID:              "PEP_1",
			PeptideSequence: "PEPCIDER",
			Modifications: []ModificationRecord{
				{Location: &loc, MonoisotopicMassDelta: 57.02146, Name: "Carbamidomethyl"},
				{MonoisotopicMassDelta: 42.01057, Name: "made-up mod"},
			},
		})
	})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, `<Peptide id="PEP_1">`)
	assert.Contains(t, out, "<PeptideSequence>PEPCIDER</PeptideSequence>")
	assert.Contains(t, out, `<Modification location="3" monoisotopicMassDelta="57.02146">`)
	assert.Contains(t, out, `accession="UNIMOD:4"`)
	// Unknown modifications carry the name as the unknown-modification value.
	assert.Contains(t, out, `accession="MS:1001460"`)
	assert.Contains(t, out, `value="made-up mod"`)
}

func TestWritePeptide_SequenceRequired(t *testing.T) {
	w, _ := sequenceWriter(t)

	err := w.SequenceCollection(func() error {
		return w.WritePeptide(PeptideRecord{ID: "PEP_1"})
	})
	require.Error(t, err)
	assert.True(t, IsBadRecord(err))
}

func TestWritePeptideEvidence(t *testing.T) {
	w, sb := sequenceWriter(t)

	err := w.SequenceCollection(func() error {
		if err := w.WriteDBSequence(DBSequenceRecord{
			ID: "DBSEQ_1", Accession: "P69905", SearchDatabaseRef: "SDB_1",
		}); err != nil {
			return err
		}
		if err := w.WritePeptide(PeptideRecord{ID: "PEP_1", PeptideSequence: "MVLSPADK"}); err != nil {
			return err
		}
		return w.WritePeptideEvidence(PeptideEvidenceRecord{
			ID:            "PE_1",
			PeptideRef:    "PEP_1",
			DBSequenceRef: "DBSEQ_1",
			Start:         1,
			End:           8,
			Pre:           "-",
			Post:          "T",
		})
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := sb.String()
	assert.Contains(t, out,
		`<PeptideEvidence id="PE_1" peptide_ref="PEP_1" dBSequence_ref="DBSEQ_1" start="1" end="8" isDecoy="false" pre="-" post="T">`)
}

func TestWritePeptideEvidence_DanglingPeptide(t *testing.T) {
	w, _ := sequenceWriter(t)

	err := w.SequenceCollection(func() error {
		return w.WritePeptideEvidence(PeptideEvidenceRecord{
			ID:            "PE_1",
			PeptideRef:    "PEP_MISSING",
			DBSequenceRef: "DBSEQ_1",
		})
	})
	require.Error(t, err)
	assert.True(t, IsDanglingReference(err))
}
