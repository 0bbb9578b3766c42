package mzidstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteInputs(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	err := w.DataCollection(func() error {
		return w.WriteInputs(InputsRecord{
			SourceFiles: []SourceFileSource{
				SourceFileRecord{ID: "SF_1", Location: "file:///data/run1.mgf", FileFormat: "Mascot MGF format"},
			},
			SearchDatabases: []SearchDatabaseSource{
				SearchDatabaseRecord{
					ID:           "SDB_1",
					Name:         "uniprot-human",
					Location:     "file:///db/uniprot.fasta",
					FileFormat:   "FASTA format",
					NumSequences: 20421,
				},
			},
			SpectraData: []SpectraDataSource{
				SpectraDataRecord{ID: "SD_1", Location: "file:///data/run1.mzML", FileFormat: "mzML format"},
			},
		})
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Contains(t, out, `<SourceFile id="SF_1" location="file:///data/run1.mgf">`)
	assert.Contains(t, out, `accession="MS:1001062"`)
	assert.Contains(t, out, `<SearchDatabase id="SDB_1" location="file:///db/uniprot.fasta" name="uniprot-human" numDatabaseSequences="20421">`)
	assert.Contains(t, out, `accession="MS:1001348"`)
	assert.Contains(t, out, "<DatabaseName>")
	assert.Contains(t, out, `name="uniprot-human"`)
	assert.Contains(t, out, `<SpectraData id="SD_1" location="file:///data/run1.mzML">`)
	assert.Contains(t, out, `accession="MS:1001530"`, "spectrum id format defaults to the mzML scheme")

	// Source files precede databases precede spectra data.
	sf := strings.Index(out, "<SourceFile")
	db := strings.Index(out, "<SearchDatabase")
	sd := strings.Index(out, "<SpectraData")
	assert.Less(t, sf, db)
	assert.Less(t, db, sd)
}

func TestWriteInputs_LocationRequired(t *testing.T) {
	w, _ := newTestWriter(t)
	require.NoError(t, w.Begin())

	err := w.DataCollection(func() error {
		return w.WriteInputs(InputsRecord{
			SearchDatabases: []SearchDatabaseSource{SearchDatabaseRecord{ID: "SDB_1"}},
		})
	})
	require.Error(t, err)
	assert.True(t, IsBadRecord(err))
}

func TestWriteInputs_UnknownFileFormatOmitted(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	err := w.DataCollection(func() error {
		return w.WriteInputs(InputsRecord{
			SourceFiles: []SourceFileSource{
				SourceFileRecord{ID: "SF_1", Location: "file:///data/raw.xyz", FileFormat: "xyz format"},
			},
		})
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<SourceFile id="SF_1"`)
	assert.NotContains(t, out, "<FileFormat>")
}

func TestNewSpectraData_UnknownIDFormat(t *testing.T) {
	w, _ := newTestWriter(t)
	require.NoError(t, w.Begin())

	_, err := w.NewSpectraData(SpectraDataRecord{
		ID:               "SD_1",
		Location:         "file:///data/run1.mzML",
		SpectrumIDFormat: "carrier pigeon",
	})
	require.Error(t, err)
	assert.True(t, IsBadRecord(err))
}

func TestSearchDatabase_DatabaseNameFallsBackToID(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	err := w.DataCollection(func() error {
		return w.WriteInputs(InputsRecord{
			SearchDatabases: []SearchDatabaseSource{
				SearchDatabaseRecord{ID: "SDB_1", Location: "file:///db/decoys.fasta"},
			},
		})
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<DatabaseName>")
	assert.Contains(t, out, `name="SDB_1"`)
}
