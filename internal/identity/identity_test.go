package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register_Idempotent(t *testing.T) {
	r := NewRegistry()

	first := r.Register(CategoryPeptide, "PEPTIDE_7")
	second := r.Register(CategoryPeptide, "PEPTIDE_7")

	assert.Equal(t, "PEPTIDE_7", first, "explicit keys are taken at face value")
	assert.Equal(t, first, second, "re-registration must return the original id")
}

func TestRegistry_Register_AutoIsFreshEachCall(t *testing.T) {
	r := NewRegistry()

	a := r.Register(CategoryPeptide, Auto)
	b := r.Register(CategoryPeptide, Auto)
	c := r.Register(CategoryPeptide, Auto)

	assert.Equal(t, "PEP_1", a)
	assert.Equal(t, "PEP_2", b)
	assert.Equal(t, "PEP_3", c)
	assert.NotEqual(t, a, b)
}

func TestRegistry_Register_AutoSkipsTakenIDs(t *testing.T) {
	r := NewRegistry()

	// An explicit registration can collide with the counter's next value.
	r.Register(CategoryDBSequence, "DBSEQ_1")
	id := r.Register(CategoryDBSequence, Auto)

	assert.Equal(t, "DBSEQ_2", id, "synthesized id must not reuse a taken id")
}

func TestRegistry_CategoriesAreIndependent(t *testing.T) {
	r := NewRegistry()

	pep := r.Register(CategoryPeptide, Auto)
	evid := r.Register(CategoryPeptideEvidence, Auto)

	assert.Equal(t, "PEP_1", pep)
	assert.Equal(t, "PE_1", evid)

	// Same explicit key under two categories stays two registrations.
	r.Register(CategoryPeptide, "shared")
	assert.False(t, r.Contains(CategoryPeptideEvidence, "shared"))
}

func TestRegistry_AutoRegistrationIsResolvable(t *testing.T) {
	r := NewRegistry()

	id := r.Register(CategorySpectraData, Auto)
	resolved, err := r.Resolve(CategorySpectraData, id)

	require.NoError(t, err)
	assert.Equal(t, id, resolved)
}

func TestRegistry_Resolve_Dangling(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(CategorySearchDatabase, "SDB_404")

	require.Error(t, err)
	assert.True(t, IsDanglingReference(err))

	var re *ReferenceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, CategorySearchDatabase, re.Category)
	assert.Equal(t, "SDB_404", re.Key)
}

func TestIsDanglingReference_OtherErrors(t *testing.T) {
	assert.False(t, IsDanglingReference(assert.AnError))
	assert.False(t, IsDanglingReference(nil))
}
