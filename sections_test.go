package mzidstream

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection_NestedOrdering(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	err := w.DataCollection(func() error {
		return w.AnalysisData(func() error {
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := buf.String()
	data := strings.Index(out, "<DataCollection>")
	analysis := strings.Index(out, "<AnalysisData>")
	analysisEnd := strings.Index(out, "</AnalysisData>")
	dataEnd := strings.Index(out, "</DataCollection>")
	require.NotEqual(t, -1, data)
	require.NotEqual(t, -1, analysis)
	assert.Less(t, data, analysis)
	assert.Less(t, analysis, analysisEnd)
	assert.Less(t, analysisEnd, dataEnd)
}

func TestSection_BodyErrorStillCloses(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	sentinel := errors.New("body failed")
	err := w.SequenceCollection(func() error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// The section closed and flushed before the error surfaced, so the
	// stream is balanced up to this point.
	out := buf.String()
	assert.Contains(t, out, "<SequenceCollection>")
	assert.Contains(t, out, "</SequenceCollection>")

	require.NoError(t, w.Close())
}

func TestSection_PanicStillCloses(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	require.Panics(t, func() {
		_ = w.AnalysisCollection(func() error {
			panic("boom")
		})
	})

	out := buf.String()
	assert.Contains(t, out, "</AnalysisCollection>", "teardown runs during unwinding")

	require.NoError(t, w.Close())
}

func TestSection_PartialChildrenSurviveBodyError(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	w.Register(CategorySearchDatabase, "SDB_1")

	sentinel := errors.New("stop after first")
	err := w.SequenceCollection(func() error {
		if err := w.WriteDBSequence(DBSequenceRecord{
			ID:                "DBSEQ_1",
			Accession:         "P01234",
			SearchDatabaseRef: "SDB_1",
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	out := buf.String()
	assert.Contains(t, out, `<DBSequence id="DBSEQ_1"`, "children written before the failure stay in the stream")
	assert.Contains(t, out, "</SequenceCollection>")
}

func TestSection_RequiresOpenWriter(t *testing.T) {
	w, _ := newTestWriter(t)

	err := w.DataCollection(func() error { return nil })
	require.Error(t, err)
	assert.True(t, IsDiscipline(err))
}

func TestSection_EmptySectionYieldsBalancedElement(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())
	require.NoError(t, w.AnalysisProtocolCollection(nil))
	require.NoError(t, w.Close())

	assert.Contains(t, buf.String(), "<AnalysisProtocolCollection></AnalysisProtocolCollection>")
}
