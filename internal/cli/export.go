package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mzidstream"
	"github.com/roach88/mzidstream/internal/resultstore"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database          string
	Output            string
	DocumentID        string
	Software          string
	SoftwareVersion   string
	FastaLocation     string
	SpectraLocation   string
	FragmentTolerance float64
	ParentTolerance   float64
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export staged results to an mzIdentML document",
		Long: `Export reads staged identification results from a SQLite database and
streams them out as a complete mzIdentML 1.1 document.

Exit codes:
  0 - Document written
  1 - Document failure (conflicting records, dangling references)
  2 - Command error (database not found, etc.)

Examples:
  mzidstream export --db ./results.db --fasta file:///db/uniprot.fasta --spectra file:///data/run1.mzML
  mzidstream export --db ./results.db --fasta file:///db/uniprot.fasta --spectra file:///data/run1.mzML --out run1.mzid`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, closeOut, err := openOutput(cmd, opts.Output)
			if err != nil {
				return err
			}
			defer closeOut()
			return runExport(cmd.Context(), opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite results database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Output, "out", "-", "output path (- for stdout)")
	cmd.Flags().StringVar(&opts.DocumentID, "id", "", "document identifier (generated if empty)")
	cmd.Flags().StringVar(&opts.Software, "software", "mzidstream", "analysis software name")
	cmd.Flags().StringVar(&opts.SoftwareVersion, "software-version", "", "analysis software version")
	cmd.Flags().StringVar(&opts.FastaLocation, "fasta", "", "search database location URI (required)")
	_ = cmd.MarkFlagRequired("fasta")
	cmd.Flags().StringVar(&opts.SpectraLocation, "spectra", "", "spectra data location URI (required)")
	_ = cmd.MarkFlagRequired("spectra")
	cmd.Flags().Float64Var(&opts.FragmentTolerance, "fragment-tolerance", 0, "fragment tolerance (ppm below 1e-4, dalton otherwise)")
	cmd.Flags().Float64Var(&opts.ParentTolerance, "parent-tolerance", 0, "parent tolerance (ppm below 1e-4, dalton otherwise)")

	return cmd
}

// openOutput resolves the --out flag: "-" writes to the command's stdout.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to create output file", err)
	}
	return f, func() { f.Close() }, nil
}

func runExport(ctx context.Context, opts *ExportOptions, out io.Writer) error {
	st, err := resultstore.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	proteins, err := st.Proteins(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read proteins", err)
	}
	peptides, err := st.Peptides(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read peptides", err)
	}
	evidence, err := st.EvidenceRows(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read evidence", err)
	}
	matches, err := st.Matches(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read matches", err)
	}

	slog.Debug("results loaded",
		"proteins", len(proteins),
		"peptides", len(peptides),
		"evidence", len(evidence),
		"matches", len(matches))

	if err := writeExportDocument(opts, out, proteins, peptides, evidence, matches); err != nil {
		return WrapExitError(ExitFailure, "failed to write document", err)
	}

	slog.Info("document written", "matches", len(matches))
	return nil
}

// writeExportDocument streams one complete document from the loaded rows.
func writeExportDocument(
	opts *ExportOptions,
	out io.Writer,
	proteins []resultstore.Protein,
	peptides []resultstore.Peptide,
	evidence []resultstore.Evidence,
	matches []resultstore.Match,
) error {
	var wopts []mzidstream.Option
	if opts.DocumentID != "" {
		wopts = append(wopts, mzidstream.WithDocumentID(opts.DocumentID))
	}
	w := mzidstream.NewWriter(out, wopts...)

	if err := w.Begin(); err != nil {
		return err
	}
	if err := w.ControlledVocabularies(); err != nil {
		return err
	}

	sw, err := w.NewAnalysisSoftware(mzidstream.SoftwareRecord{
		Name:    opts.Software,
		Version: opts.SoftwareVersion,
	})
	if err != nil {
		return err
	}
	if err := w.Providence(mzidstream.Providence{
		Software: []mzidstream.AnalysisSoftwareSource{sw},
	}); err != nil {
		return err
	}

	// Entities declared inside DataCollection are referenced earlier in the
	// document, so their identifiers are pinned up front.
	dbID := w.Register(mzidstream.CategorySearchDatabase, "SDB_1")
	sdID := w.Register(mzidstream.CategorySpectraData, "SD_1")
	sipID := w.Register(mzidstream.CategorySpectrumIdentificationProtocol, "SIP_1")
	silID := w.Register(mzidstream.CategorySpectrumIdentificationList, "SIL_1")

	evidenceByProtein := make(map[string][]resultstore.Evidence)
	for _, e := range evidence {
		evidenceByProtein[e.ProteinAccession] = append(evidenceByProtein[e.ProteinAccession], e)
	}
	matchesByEvidence := make(map[string][]string)
	for _, m := range matches {
		matchesByEvidence[m.EvidenceID] = append(matchesByEvidence[m.EvidenceID], m.ID)
	}

	var identified []resultstore.Protein
	for _, p := range proteins {
		if len(evidenceByProtein[p.Accession]) > 0 {
			identified = append(identified, p)
		}
	}
	detectProteins := len(identified) > 0
	var pdpID, pdlID string
	if detectProteins {
		pdpID = w.Register(mzidstream.CategoryProteinDetectionProtocol, "PDP_1")
		pdlID = w.Register(mzidstream.CategoryProteinDetectionList, "PDL_1")
	}

	err = w.SequenceCollection(func() error {
		for _, p := range proteins {
			if err := w.WriteDBSequence(mzidstream.DBSequenceRecord{
				ID:                p.Accession,
				Accession:         p.Accession,
				SearchDatabaseRef: dbID,
				Sequence:          p.Sequence,
				Description:       p.Description,
			}); err != nil {
				return err
			}
		}
		for _, p := range peptides {
			mods := make([]mzidstream.ModificationRecord, 0, len(p.Modifications))
			for _, m := range p.Modifications {
				mods = append(mods, mzidstream.ModificationRecord{
					Location:              m.Location,
					MonoisotopicMassDelta: m.MassDelta,
					Name:                  m.Name,
				})
			}
			if err := w.WritePeptide(mzidstream.PeptideRecord{
				ID:              p.ID,
				PeptideSequence: p.Sequence,
				Modifications:   mods,
			}); err != nil {
				return err
			}
		}
		for _, e := range evidence {
			if err := w.WritePeptideEvidence(mzidstream.PeptideEvidenceRecord{
				ID:            e.ID,
				PeptideRef:    e.PeptideID,
				DBSequenceRef: e.ProteinAccession,
				Start:         e.Start,
				End:           e.End,
				Pre:           e.Pre,
				Post:          e.Post,
				IsDecoy:       e.IsDecoy,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = w.AnalysisCollection(func() error {
		if err := w.WriteSpectrumIdentification(mzidstream.SpectrumIdentificationRecord{
			ID:                 "SI_1",
			ProtocolRef:        sipID,
			ListRef:            silID,
			SpectraDataRefs:    []string{sdID},
			SearchDatabaseRefs: []string{dbID},
		}); err != nil {
			return err
		}
		if detectProteins {
			return w.WriteProteinDetection(mzidstream.ProteinDetectionRecord{
				ID:                          "PD_1",
				ProtocolRef:                 pdpID,
				ListRef:                     pdlID,
				InputIdentificationListRefs: []string{silID},
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = w.AnalysisProtocolCollection(func() error {
		rec := mzidstream.SpectrumIdentificationProtocolRecord{
			ID:                  sipID,
			AnalysisSoftwareRef: sw.ID(),
		}
		if opts.FragmentTolerance > 0 {
			rec.FragmentTolerance = &mzidstream.ToleranceRecord{Value: opts.FragmentTolerance}
		}
		if opts.ParentTolerance > 0 {
			rec.ParentTolerance = &mzidstream.ToleranceRecord{Value: opts.ParentTolerance}
		}
		if err := w.WriteSpectrumIdentificationProtocol(rec); err != nil {
			return err
		}
		if detectProteins {
			return w.WriteProteinDetectionProtocol(mzidstream.ProteinDetectionProtocolRecord{
				ID:                  pdpID,
				AnalysisSoftwareRef: sw.ID(),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = w.DataCollection(func() error {
		err := w.WriteInputs(mzidstream.InputsRecord{
			SearchDatabases: []mzidstream.SearchDatabaseSource{
				mzidstream.SearchDatabaseRecord{
					ID:           dbID,
					Location:     opts.FastaLocation,
					FileFormat:   "FASTA format",
					NumSequences: int64(len(proteins)),
				},
			},
			SpectraData: []mzidstream.SpectraDataSource{
				mzidstream.SpectraDataRecord{
					ID:         sdID,
					Location:   opts.SpectraLocation,
					FileFormat: "mzML format",
				},
			},
		})
		if err != nil {
			return err
		}
		return w.AnalysisData(func() error {
			err := w.SpectrumIdentificationList(mzidstream.SpectrumIdentificationListRecord{
				ID: silID,
			}, func() error {
				return writeMatchResults(w, sdID, matches)
			})
			if err != nil {
				return err
			}
			if !detectProteins {
				return nil
			}
			count := len(identified)
			return w.ProteinDetectionList(mzidstream.ProteinDetectionListRecord{
				ID:    pdlID,
				Count: &count,
			}, func() error {
				for _, p := range identified {
					hypotheses := make([]mzidstream.PeptideHypothesisSource, 0, len(evidenceByProtein[p.Accession]))
					for _, e := range evidenceByProtein[p.Accession] {
						hypotheses = append(hypotheses, mzidstream.PeptideHypothesisRecord{
							PeptideEvidenceRef:             e.ID,
							SpectrumIdentificationItemRefs: matchesByEvidence[e.ID],
						})
					}
					err := w.WriteProteinAmbiguityGroup(mzidstream.ProteinAmbiguityGroupRecord{
						Hypotheses: []mzidstream.ProteinDetectionHypothesisSource{
							mzidstream.ProteinDetectionHypothesisRecord{
								DBSequenceRef:     p.Accession,
								Name:              p.Description,
								PeptideHypotheses: hypotheses,
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
	if err != nil {
		return err
	}
	return w.Close()
}

// writeMatchResults emits one SpectrumIdentificationResult per contiguous
// run of spectrum ids. Matches arrive pre-grouped from the store.
func writeMatchResults(w *mzidstream.Writer, sdID string, matches []resultstore.Match) error {
	for i := 0; i < len(matches); {
		j := i
		for j < len(matches) && matches[j].SpectrumID == matches[i].SpectrumID {
			j++
		}
		items := make([]mzidstream.SpectrumIdentificationItemSource, 0, j-i)
		for _, m := range matches[i:j] {
			scores := make(map[string]any, len(m.Scores))
			for name, value := range m.Scores {
				scores[name] = value
			}
			passThreshold := m.PassThreshold
			items = append(items, mzidstream.SpectrumIdentificationItemRecord{
				ID:                       m.ID,
				PeptideRef:               m.PeptideID,
				PeptideEvidenceRefs:      []string{m.EvidenceID},
				ExperimentalMassToCharge: m.ExperimentalMZ,
				CalculatedMassToCharge:   m.CalculatedMZ,
				ChargeState:              m.Charge,
				Rank:                     m.Rank,
				PassThreshold:            &passThreshold,
				Scores:                   scores,
			})
		}
		err := w.WriteSpectrumIdentificationResult(mzidstream.SpectrumIdentificationResultRecord{
			SpectrumID:     matches[i].SpectrumID,
			SpectraDataRef: sdID,
			Items:          items,
		})
		if err != nil {
			return err
		}
		i = j
	}
	return nil
}
