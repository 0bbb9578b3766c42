package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mzidstream"
)

// Job is the declarative document description the convert command reads.
// Record fields carry their own yaml tags; params and nested builders stay
// out of the job format.
type Job struct {
	ID            string                          `yaml:"id"`
	Software      []mzidstream.SoftwareRecord     `yaml:"software"`
	Owner         []mzidstream.PersonRecord       `yaml:"owner"`
	Organizations []mzidstream.OrganizationRecord `yaml:"organizations"`
	Inputs        JobInputs                       `yaml:"inputs"`
	Sequences     JobSequences                    `yaml:"sequences"`
	Protocol      JobProtocol                     `yaml:"protocol"`
	Results       JobResults                      `yaml:"results"`
}

// JobInputs lists the Inputs entities.
type JobInputs struct {
	SourceFiles     []mzidstream.SourceFileRecord     `yaml:"source_files"`
	SearchDatabases []mzidstream.SearchDatabaseRecord `yaml:"search_databases"`
	SpectraData     []mzidstream.SpectraDataRecord    `yaml:"spectra_data"`
}

// JobSequences lists the SequenceCollection entities.
type JobSequences struct {
	DBSequences []mzidstream.DBSequenceRecord      `yaml:"db_sequences"`
	Peptides    []mzidstream.PeptideRecord         `yaml:"peptides"`
	Evidence    []mzidstream.PeptideEvidenceRecord `yaml:"evidence"`
}

// JobProtocol describes the identification protocol.
type JobProtocol struct {
	ID                string                      `yaml:"id"`
	SoftwareRef       string                      `yaml:"software_ref"`
	SearchType        string                      `yaml:"search_type"`
	FragmentTolerance *mzidstream.ToleranceRecord `yaml:"fragment_tolerance"`
	ParentTolerance   *mzidstream.ToleranceRecord `yaml:"parent_tolerance"`
}

// JobResults describes the identification results list.
type JobResults struct {
	ListID  string      `yaml:"list_id"`
	Results []JobResult `yaml:"results"`
}

// JobResult is one spectrum's worth of candidate matches.
type JobResult struct {
	ID             string    `yaml:"id"`
	SpectrumID     string    `yaml:"spectrum_id"`
	SpectraDataRef string    `yaml:"spectra_data_ref"`
	Items          []JobItem `yaml:"items"`
}

// JobItem is one candidate match.
type JobItem struct {
	ID             string             `yaml:"id"`
	PeptideRef     string             `yaml:"peptide_ref"`
	EvidenceRefs   []string           `yaml:"evidence_refs"`
	Charge         int                `yaml:"charge"`
	ExperimentalMZ float64            `yaml:"experimental_mz"`
	CalculatedMZ   *float64           `yaml:"calculated_mz"`
	Rank           int                `yaml:"rank"`
	Scores         map[string]float64 `yaml:"scores"`
}

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	JobPath string
	Output  string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a YAML job description to an mzIdentML document",
		Long: `Convert reads a declarative YAML job describing inputs, sequences, the
identification protocol, and results, and streams out the corresponding
mzIdentML 1.1 document.

Exit codes:
  0 - Document written
  1 - Document failure (conflicting records, dangling references)
  2 - Command error (job file not found, malformed YAML, etc.)

Examples:
  mzidstream convert --job run1.yaml
  mzidstream convert --job run1.yaml --out run1.mzid`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, closeOut, err := openOutput(cmd, opts.Output)
			if err != nil {
				return err
			}
			defer closeOut()
			return runConvert(opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.JobPath, "job", "", "path to YAML job file (required)")
	_ = cmd.MarkFlagRequired("job")
	cmd.Flags().StringVar(&opts.Output, "out", "-", "output path (- for stdout)")

	return cmd
}

func runConvert(opts *ConvertOptions, out io.Writer) error {
	data, err := os.ReadFile(opts.JobPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read job file", err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return WrapExitError(ExitCommandError, "failed to parse job file", err)
	}

	slog.Debug("job loaded",
		"software", len(job.Software),
		"peptides", len(job.Sequences.Peptides),
		"results", len(job.Results.Results))

	if err := writeJobDocument(job, out); err != nil {
		return WrapExitError(ExitFailure, "failed to write document", err)
	}
	return nil
}

// writeJobDocument streams the document the job describes.
func writeJobDocument(job Job, out io.Writer) error {
	var wopts []mzidstream.Option
	if job.ID != "" {
		wopts = append(wopts, mzidstream.WithDocumentID(job.ID))
	}
	w := mzidstream.NewWriter(out, wopts...)

	if err := w.Begin(); err != nil {
		return err
	}
	if err := w.ControlledVocabularies(); err != nil {
		return err
	}

	providence := mzidstream.Providence{}
	for _, rec := range job.Software {
		providence.Software = append(providence.Software, rec)
	}
	for _, rec := range job.Organizations {
		providence.Organization = append(providence.Organization, rec)
	}
	for _, rec := range job.Owner {
		providence.Owner = append(providence.Owner, rec)
	}
	if err := w.Providence(providence); err != nil {
		return err
	}

	// Inputs are declared at the end of the document but referenced
	// throughout; pin their identifiers first.
	for _, rec := range job.Inputs.SearchDatabases {
		w.Register(mzidstream.CategorySearchDatabase, rec.ID)
	}
	for _, rec := range job.Inputs.SpectraData {
		w.Register(mzidstream.CategorySpectraData, rec.ID)
	}

	protocolID := job.Protocol.ID
	if protocolID == "" {
		protocolID = "SIP_1"
	}
	sipID := w.Register(mzidstream.CategorySpectrumIdentificationProtocol, protocolID)
	listID := job.Results.ListID
	if listID == "" {
		listID = "SIL_1"
	}
	silID := w.Register(mzidstream.CategorySpectrumIdentificationList, listID)

	err := w.SequenceCollection(func() error {
		for _, rec := range job.Sequences.DBSequences {
			if err := w.WriteDBSequence(rec); err != nil {
				return err
			}
		}
		for _, rec := range job.Sequences.Peptides {
			if err := w.WritePeptide(rec); err != nil {
				return err
			}
		}
		for _, rec := range job.Sequences.Evidence {
			if err := w.WritePeptideEvidence(rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	spectraRefs := make([]string, 0, len(job.Inputs.SpectraData))
	for _, rec := range job.Inputs.SpectraData {
		spectraRefs = append(spectraRefs, rec.ID)
	}
	databaseRefs := make([]string, 0, len(job.Inputs.SearchDatabases))
	for _, rec := range job.Inputs.SearchDatabases {
		databaseRefs = append(databaseRefs, rec.ID)
	}

	err = w.AnalysisCollection(func() error {
		return w.WriteSpectrumIdentification(mzidstream.SpectrumIdentificationRecord{
			ID:                 "SI_1",
			ProtocolRef:        sipID,
			ListRef:            silID,
			SpectraDataRefs:    spectraRefs,
			SearchDatabaseRefs: databaseRefs,
		})
	})
	if err != nil {
		return err
	}

	err = w.AnalysisProtocolCollection(func() error {
		return w.WriteSpectrumIdentificationProtocol(mzidstream.SpectrumIdentificationProtocolRecord{
			ID:                  sipID,
			AnalysisSoftwareRef: job.Protocol.SoftwareRef,
			SearchType:          job.Protocol.SearchType,
			FragmentTolerance:   job.Protocol.FragmentTolerance,
			ParentTolerance:     job.Protocol.ParentTolerance,
		})
	})
	if err != nil {
		return err
	}

	err = w.DataCollection(func() error {
		inputs := mzidstream.InputsRecord{}
		for _, rec := range job.Inputs.SourceFiles {
			inputs.SourceFiles = append(inputs.SourceFiles, rec)
		}
		for _, rec := range job.Inputs.SearchDatabases {
			inputs.SearchDatabases = append(inputs.SearchDatabases, rec)
		}
		for _, rec := range job.Inputs.SpectraData {
			inputs.SpectraData = append(inputs.SpectraData, rec)
		}
		if err := w.WriteInputs(inputs); err != nil {
			return err
		}
		return w.AnalysisData(func() error {
			return w.SpectrumIdentificationList(mzidstream.SpectrumIdentificationListRecord{
				ID: silID,
			}, func() error {
				for _, res := range job.Results.Results {
					if err := writeJobResult(w, res); err != nil {
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

func writeJobResult(w *mzidstream.Writer, res JobResult) error {
	if res.SpectraDataRef == "" {
		return fmt.Errorf("result %s: spectra_data_ref is required", res.SpectrumID)
	}
	items := make([]mzidstream.SpectrumIdentificationItemSource, 0, len(res.Items))
	for _, item := range res.Items {
		scores := make(map[string]any, len(item.Scores))
		for name, value := range item.Scores {
			scores[name] = value
		}
		items = append(items, mzidstream.SpectrumIdentificationItemRecord{
			ID:                       item.ID,
			PeptideRef:               item.PeptideRef,
			PeptideEvidenceRefs:      item.EvidenceRefs,
			ExperimentalMassToCharge: item.ExperimentalMZ,
			CalculatedMassToCharge:   item.CalculatedMZ,
			ChargeState:              item.Charge,
			Rank:                     item.Rank,
			Scores:                   scores,
		})
	}
	return w.WriteSpectrumIdentificationResult(mzidstream.SpectrumIdentificationResultRecord{
		ID:             res.ID,
		SpectrumID:     res.SpectrumID,
		SpectraDataRef: res.SpectraDataRef,
		Items:          items,
	})
}
