package mzidstream

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resultsWriter seeds the registry with the entities identification results
// reference.
func resultsWriter(t *testing.T) (*Writer, *strings.Builder) {
	t.Helper()
	var sb strings.Builder
	w := NewWriter(&sb, WithDocumentID("MZID_TEST"))
	require.NoError(t, w.Begin())
	w.Register(CategorySpectraData, "SD_1")
	w.Register(CategoryPeptide, "PEP_1")
	w.Register(CategoryPeptideEvidence, "PE_1")
	return w, &sb
}

func TestSpectrumIdentificationList_FragmentationTablePrecedesResults(t *testing.T) {
	w, sb := resultsWriter(t)

	err := w.SpectrumIdentificationList(SpectrumIdentificationListRecord{ID: "SIL_1"}, func() error {
		return w.WriteSpectrumIdentificationResult(SpectrumIdentificationResultRecord{
			ID:             "SIR_1",
			SpectrumID:     "controllerType=0 controllerNumber=1 scan=100",
			SpectraDataRef: "SD_1",
		})
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := sb.String()
	table := strings.Index(out, "<FragmentationTable>")
	result := strings.Index(out, "<SpectrumIdentificationResult")
	require.NotEqual(t, -1, table)
	require.NotEqual(t, -1, result)
	assert.Less(t, table, result)

	assert.Contains(t, out, `<Measure id="M_MZ">`)
	assert.Contains(t, out, `<Measure id="M_INTENSITY">`)
	assert.Contains(t, out, `<Measure id="M_ERROR">`)
	assert.Contains(t, out, `accession="MS:1001225"`)
}

func TestSpectrumIdentificationItem_Defaults(t *testing.T) {
	w, sb := resultsWriter(t)

	err := w.SpectrumIdentificationList(SpectrumIdentificationListRecord{ID: "SIL_1"}, func() error {
		return w.WriteSpectrumIdentificationResult(SpectrumIdentificationResultRecord{
			ID:             "SIR_1",
			SpectrumID:     "index=7",
			SpectraDataRef: "SD_1",
			Items: []SpectrumIdentificationItemSource{
				SpectrumIdentificationItemRecord{
					ID:                       "SII_1",
					PeptideRef:               "PEP_1",
					PeptideEvidenceRefs:      []string{"PE_1"},
					ExperimentalMassToCharge: 512.2345,
					ChargeState:              2,
					Scores:                   map[string]any{"Mascot:score": 42.5},
				},
			},
		})
	})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, `rank="1"`, "rank defaults to 1")
	assert.Contains(t, out, `passThreshold="true"`, "passThreshold defaults to true")
	assert.Contains(t, out, `experimentalMassToCharge="512.2345"`)
	assert.NotContains(t, out, "calculatedMassToCharge")
	assert.Contains(t, out, `<PeptideEvidenceRef peptideEvidence_ref="PE_1">`)
	assert.Contains(t, out, `accession="MS:1001171"`, "score name resolves to its term")
}

func TestSpectrumIdentificationResult_MissingSpectrumID(t *testing.T) {
	w, _ := resultsWriter(t)

	err := w.SpectrumIdentificationList(SpectrumIdentificationListRecord{ID: "SIL_1"}, func() error {
		return w.WriteSpectrumIdentificationResult(SpectrumIdentificationResultRecord{
			ID:             "SIR_1",
			SpectraDataRef: "SD_1",
		})
	})
	require.Error(t, err)
	assert.True(t, IsBadRecord(err))
}

// TestResults_RoundTrip streams a batch of results and parses the document
// back, checking the stream carried every record.
func TestResults_RoundTrip(t *testing.T) {
	const nResults = 25

	var buf bytes.Buffer
	w := NewWriter(&buf, WithDocumentID("MZID_TEST"))
	require.NoError(t, w.Begin())
	w.Register(CategorySpectraData, "SD_1")
	w.Register(CategoryPeptide, "PEP_1")
	w.Register(CategoryPeptideEvidence, "PE_1")

	err := w.DataCollection(func() error {
		return w.AnalysisData(func() error {
			return w.SpectrumIdentificationList(SpectrumIdentificationListRecord{ID: "SIL_1"}, func() error {
				for i := 0; i < nResults; i++ {
					err := w.WriteSpectrumIdentificationResult(SpectrumIdentificationResultRecord{
						SpectrumID:     fmt.Sprintf("index=%d", i),
						SpectraDataRef: "SD_1",
						Items: []SpectrumIdentificationItemSource{
							SpectrumIdentificationItemRecord{
								PeptideRef:               "PEP_1",
								PeptideEvidenceRefs:      []string{"PE_1"},
								ExperimentalMassToCharge: 400.0 + float64(i),
								ChargeState:              2,
							},
						},
					})
					if err != nil {
						return err
					}
				}
				return nil
			})
		})
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dec := xml.NewDecoder(bytes.NewReader(buf.Bytes()))
	var results, items int
	seen := make(map[string]bool)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "output must be well formed")
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "SpectrumIdentificationResult":
			results++
			for _, a := range start.Attr {
				if a.Name.Local == "id" {
					assert.False(t, seen[a.Value], "result ids are unique")
					seen[a.Value] = true
				}
			}
		case "SpectrumIdentificationItem":
			items++
		}
	}
	assert.Equal(t, nResults, results)
	assert.Equal(t, nResults, items)
}
