package cv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabularies(t *testing.T) {
	vocabs := DefaultVocabularies()
	require.Len(t, vocabs, 3)

	ids := []string{vocabs[0].ID, vocabs[1].ID, vocabs[2].ID}
	assert.Equal(t, []string{"PSI-MS", "UNIMOD", "UO"}, ids)

	for _, v := range vocabs {
		assert.NotEmpty(t, v.FullName)
		assert.NotEmpty(t, v.URI)
	}
}

func TestTermByName(t *testing.T) {
	term, ok := TermByName("count of identified proteins")
	require.True(t, ok)
	assert.Equal(t, "MS:1002404", term.Accession)
	assert.Equal(t, "PSI-MS", term.CVRef)
}

func TestTermByName_CaseInsensitive(t *testing.T) {
	term, ok := TermByName("MASCOT:SCORE")
	require.True(t, ok)
	assert.Equal(t, "MS:1001171", term.Accession)
	assert.Equal(t, "Mascot:score", term.Name, "canonical casing wins")
}

func TestTermByName_Unknown(t *testing.T) {
	term, ok := TermByName("definitely not a term")
	assert.False(t, ok)
	assert.True(t, term.IsZero())
}

func TestTermByAccession(t *testing.T) {
	term, ok := TermByAccession("UNIMOD:4")
	require.True(t, ok)
	assert.Equal(t, "Carbamidomethyl", term.Name)
	assert.Equal(t, "UNIMOD", term.CVRef)

	_, ok = TermByAccession("MS:0000000")
	assert.False(t, ok)
}

func TestUnitByName(t *testing.T) {
	ppm, ok := UnitByName("parts per million")
	require.True(t, ok)
	assert.Equal(t, "UO:0000169", ppm.Accession)

	da, ok := UnitByName("dalton")
	require.True(t, ok)
	assert.Equal(t, "UO:0000221", da.Accession)
}
