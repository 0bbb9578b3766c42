package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJob = `
id: MZID_JOB
software:
  - id: SW_1
    name: Comet
    version: "2024.01"
inputs:
  search_databases:
    - id: SDB_1
      location: file:///db/uniprot.fasta
      file_format: FASTA format
  spectra_data:
    - id: SD_1
      location: file:///data/run1.mzML
      file_format: mzML format
sequences:
  db_sequences:
    - id: DBSEQ_1
      accession: P69905
      search_database_ref: SDB_1
      sequence: MVLSPADKTN
  peptides:
    - id: PEP_1
      peptide_sequence: MVLSPADK
  evidence:
    - id: PE_1
      peptide_ref: PEP_1
      db_sequence_ref: DBSEQ_1
      start: 1
      end: 8
protocol:
  software_ref: SW_1
  fragment_tolerance:
    value: 0.02
results:
  results:
    - spectrum_id: index=0
      spectra_data_ref: SD_1
      items:
        - id: SII_1
          peptide_ref: PEP_1
          evidence_refs: [PE_1]
          charge: 2
          experimental_mz: 419.5
          scores:
            SEQUEST:xcorr: 2.5
`

func writeJobFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunConvert_FullDocument(t *testing.T) {
	opts := &ConvertOptions{
		RootOptions: &RootOptions{},
		JobPath:     writeJobFile(t, testJob),
	}

	var buf bytes.Buffer
	require.NoError(t, runConvert(opts, &buf))

	out := buf.String()
	assert.Contains(t, out, `<MzIdentML id="MZID_JOB"`)
	assert.Contains(t, out, `<AnalysisSoftware id="SW_1" name="Comet" version="2024.01">`)
	assert.Contains(t, out, `<DBSequence id="DBSEQ_1" accession="P69905"`)
	assert.Contains(t, out, `<SpectrumIdentification id="SI_1"`)
	assert.Contains(t, out, `<SpectrumIdentificationProtocol id="SIP_1" analysisSoftware_ref="SW_1">`)
	assert.Contains(t, out, `<FragmentTolerance>`)
	assert.Contains(t, out, `value="0.02"`)
	assert.Contains(t, out, `<SearchDatabase id="SDB_1" location="file:///db/uniprot.fasta">`)
	assert.Contains(t, out, `<SpectrumIdentificationItem id="SII_1"`)
	assert.Contains(t, out, `accession="MS:1001155"`)
}

func TestRunConvert_MissingJobFile(t *testing.T) {
	opts := &ConvertOptions{
		RootOptions: &RootOptions{},
		JobPath:     filepath.Join(t.TempDir(), "missing.yaml"),
	}

	var buf bytes.Buffer
	err := runConvert(opts, &buf)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunConvert_MalformedYAML(t *testing.T) {
	opts := &ConvertOptions{
		RootOptions: &RootOptions{},
		JobPath:     writeJobFile(t, "id: [unclosed"),
	}

	var buf bytes.Buffer
	err := runConvert(opts, &buf)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunConvert_DanglingReference(t *testing.T) {
	job := `
id: MZID_JOB
software:
  - id: SW_1
    name: Comet
sequences:
  evidence:
    - id: PE_1
      peptide_ref: PEP_MISSING
      db_sequence_ref: DBSEQ_MISSING
protocol:
  software_ref: SW_1
`
	opts := &ConvertOptions{
		RootOptions: &RootOptions{},
		JobPath:     writeJobFile(t, job),
	}

	var buf bytes.Buffer
	err := runConvert(opts, &buf)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
