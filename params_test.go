package mzidstream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mzidstream/internal/xmlsink"
)

func writeParamTo(t *testing.T, p Param) string {
	t.Helper()
	var buf bytes.Buffer
	sink := xmlsink.New(&buf, "")
	require.NoError(t, p.write(sink))
	require.NoError(t, sink.Flush())
	return buf.String()
}

func TestParam_KnownNameBecomesCVParam(t *testing.T) {
	out := writeParamTo(t, CV("Mascot:score", 42.5))

	assert.Contains(t, out, `<cvParam`)
	assert.Contains(t, out, `cvRef="PSI-MS"`)
	assert.Contains(t, out, `accession="MS:1001171"`)
	assert.Contains(t, out, `name="Mascot:score"`)
	assert.Contains(t, out, `value="42.5"`)
}

func TestParam_UnknownNameFallsBackToUserParam(t *testing.T) {
	out := writeParamTo(t, CV("homebrew quality index", 3))

	assert.Contains(t, out, `<userParam`)
	assert.Contains(t, out, `name="homebrew quality index"`)
	assert.Contains(t, out, `value="3"`)
	assert.NotContains(t, out, "accession")
}

func TestParam_ExplicitUserParam(t *testing.T) {
	// A name that exists in the catalog still stays a userParam when pinned.
	out := writeParamTo(t, User("Mascot:score", 1))

	assert.Contains(t, out, `<userParam`)
	assert.NotContains(t, out, "cvRef")
}

func TestParam_AccessionPinsCVForm(t *testing.T) {
	out := writeParamTo(t, Param{Accession: "UNIMOD:4"})

	assert.Contains(t, out, `cvRef="UNIMOD"`)
	assert.Contains(t, out, `accession="UNIMOD:4"`)
	assert.Contains(t, out, `name="Carbamidomethyl"`)
}

func TestParam_UnitEmission(t *testing.T) {
	p := CV("search tolerance plus value", 5.0)
	p.Unit = "parts per million"
	out := writeParamTo(t, p)

	assert.Contains(t, out, `unitCvRef="UO"`)
	assert.Contains(t, out, `unitAccession="UO:0000169"`)
	assert.Contains(t, out, `unitName="parts per million"`)
}

func TestParam_NilValueOmitsAttribute(t *testing.T) {
	out := writeParamTo(t, CV("no threshold", nil))
	assert.NotContains(t, out, "value=")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", "hello"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int", 42, "42"},
		{"int64", int64(7), "7"},
		{"integral float keeps decimal", 5.0, "5.0"},
		{"fractional float", 0.02, "0.02"},
		{"small float", 1e-4, "0.0001"},
		{"negative integral float", -3.0, "-3.0"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.in))
		})
	}
}

func TestFormatValue_NFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	decomposed := "Prote\u0301ine"
	assert.Equal(t, "Prot\u00e9ine", formatValue(decomposed))
}

func TestSortedKeys_Deterministic(t *testing.T) {
	m := map[string]any{"c": 1, "a": 2, "b": 3}
	assert.Equal(t, []string{"a", "b", "c"}, sortedKeys(m))
}
