package mzidstream

import (
	"log/slog"

	"github.com/roach88/mzidstream/internal/cv"
	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// SourceFileRecord describes one SourceFile entity in Inputs.
type SourceFileRecord struct {
	ID         string  `yaml:"id"`
	Location   string  `yaml:"location"`
	FileFormat string  `yaml:"file_format"`
	Params     []Param `yaml:"-"`
}

// SourceFile is a built, registered source-file entity.
type SourceFile struct {
	id       string
	location string
	format   cv.Term
	params   []Param
}

// ID returns the registered identifier.
func (s *SourceFile) ID() string { return s.id }

// SourceFileSource is either a built *SourceFile or a SourceFileRecord.
type SourceFileSource interface {
	ensureSourceFile(w *Writer) (*SourceFile, error)
}

func (s *SourceFile) ensureSourceFile(*Writer) (*SourceFile, error) { return s, nil }

func (r SourceFileRecord) ensureSourceFile(w *Writer) (*SourceFile, error) {
	return w.NewSourceFile(r)
}

// NewSourceFile builds and registers a SourceFile from rec.
func (w *Writer) NewSourceFile(rec SourceFileRecord) (*SourceFile, error) {
	if rec.Location == "" {
		return nil, newBadRecordError("SourceFile", "location is required")
	}
	return &SourceFile{
		id:       w.reg.Register(identity.CategorySourceFile, rec.ID),
		location: rec.Location,
		format:   lookupFileFormat("SourceFile", rec.FileFormat),
		params:   rec.Params,
	}, nil
}

func (s *SourceFile) write(w *Writer) error {
	attrs := []xmlsink.Attr{
		{Name: "id", Value: s.id},
		{Name: "location", Value: formatValue(s.location)},
	}
	return w.writeElement("SourceFile", attrs, func() error {
		if err := writeFileFormat(w, s.format); err != nil {
			return err
		}
		return writeParams(w.sink, s.params)
	})
}

// SearchDatabaseRecord describes one SearchDatabase entity in Inputs.
type SearchDatabaseRecord struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Location     string  `yaml:"location"`
	FileFormat   string  `yaml:"file_format"`
	NumSequences int64   `yaml:"num_sequences"`
	Params       []Param `yaml:"-"`
}

// SearchDatabase is a built, registered search-database entity.
type SearchDatabase struct {
	id           string
	name         string
	location     string
	format       cv.Term
	numSequences int64
	params       []Param
}

// ID returns the registered identifier.
func (s *SearchDatabase) ID() string { return s.id }

// SearchDatabaseSource is either a built *SearchDatabase or a
// SearchDatabaseRecord.
type SearchDatabaseSource interface {
	ensureSearchDatabase(w *Writer) (*SearchDatabase, error)
}

func (s *SearchDatabase) ensureSearchDatabase(*Writer) (*SearchDatabase, error) { return s, nil }

func (r SearchDatabaseRecord) ensureSearchDatabase(w *Writer) (*SearchDatabase, error) {
	return w.NewSearchDatabase(r)
}

// NewSearchDatabase builds and registers a SearchDatabase from rec.
func (w *Writer) NewSearchDatabase(rec SearchDatabaseRecord) (*SearchDatabase, error) {
	if rec.Location == "" {
		return nil, newBadRecordError("SearchDatabase", "location is required")
	}
	return &SearchDatabase{
		id:           w.reg.Register(identity.CategorySearchDatabase, rec.ID),
		name:         rec.Name,
		location:     rec.Location,
		format:       lookupFileFormat("SearchDatabase", rec.FileFormat),
		numSequences: rec.NumSequences,
		params:       rec.Params,
	}, nil
}

func (s *SearchDatabase) write(w *Writer) error {
	attrs := []xmlsink.Attr{
		{Name: "id", Value: s.id},
		{Name: "location", Value: formatValue(s.location)},
	}
	if s.name != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "name", Value: formatValue(s.name)})
	}
	if s.numSequences > 0 {
		attrs = append(attrs, xmlsink.Attr{Name: "numDatabaseSequences", Value: formatValue(s.numSequences)})
	}
	return w.writeElement("SearchDatabase", attrs, func() error {
		if err := writeFileFormat(w, s.format); err != nil {
			return err
		}
		// DatabaseName is mandatory; the display name doubles as it.
		name := s.name
		if name == "" {
			name = s.id
		}
		err := w.writeElement("DatabaseName", nil, func() error {
			return User(name, nil).write(w.sink)
		})
		if err != nil {
			return err
		}
		return writeParams(w.sink, s.params)
	})
}

// SpectraDataRecord describes one SpectraData entity in Inputs.
type SpectraDataRecord struct {
	ID               string  `yaml:"id"`
	Location         string  `yaml:"location"`
	FileFormat       string  `yaml:"file_format"`
	SpectrumIDFormat string  `yaml:"spectrum_id_format"`
	Params           []Param `yaml:"-"`
}

// SpectraData is a built, registered spectra-data entity.
type SpectraData struct {
	id       string
	location string
	format   cv.Term
	idFormat cv.Term
	params   []Param
}

// ID returns the registered identifier.
func (s *SpectraData) ID() string { return s.id }

// SpectraDataSource is either a built *SpectraData or a SpectraDataRecord.
type SpectraDataSource interface {
	ensureSpectraData(w *Writer) (*SpectraData, error)
}

func (s *SpectraData) ensureSpectraData(*Writer) (*SpectraData, error) { return s, nil }

func (r SpectraDataRecord) ensureSpectraData(w *Writer) (*SpectraData, error) {
	return w.NewSpectraData(r)
}

// NewSpectraData builds and registers a SpectraData from rec. The spectrum
// identifier format defaults to the mzML unique identifier scheme.
func (w *Writer) NewSpectraData(rec SpectraDataRecord) (*SpectraData, error) {
	if rec.Location == "" {
		return nil, newBadRecordError("SpectraData", "location is required")
	}
	idFormat := cv.Term{}
	if rec.SpectrumIDFormat == "" {
		idFormat, _ = cv.TermByName("mzML unique identifier")
	} else if term, ok := cv.TermByName(rec.SpectrumIDFormat); ok {
		idFormat = term
	} else {
		return nil, newBadRecordError("SpectraData",
			"unrecognized spectrum id format "+rec.SpectrumIDFormat)
	}
	return &SpectraData{
		id:       w.reg.Register(identity.CategorySpectraData, rec.ID),
		location: rec.Location,
		format:   lookupFileFormat("SpectraData", rec.FileFormat),
		idFormat: idFormat,
		params:   rec.Params,
	}, nil
}

func (s *SpectraData) write(w *Writer) error {
	attrs := []xmlsink.Attr{
		{Name: "id", Value: s.id},
		{Name: "location", Value: formatValue(s.location)},
	}
	return w.writeElement("SpectraData", attrs, func() error {
		if err := writeFileFormat(w, s.format); err != nil {
			return err
		}
		err := w.writeElement("SpectrumIDFormat", nil, func() error {
			return cvTermParam(s.idFormat, nil).write(w.sink)
		})
		if err != nil {
			return err
		}
		return writeParams(w.sink, s.params)
	})
}

// InputsRecord supplies the Inputs element of DataCollection.
type InputsRecord struct {
	SourceFiles     []SourceFileSource
	SearchDatabases []SearchDatabaseSource
	SpectraData     []SpectraDataSource
}

// WriteInputs writes the Inputs element: source files, search databases,
// then spectra data. Call inside DataCollection, before AnalysisData.
func (w *Writer) WriteInputs(rec InputsRecord) error {
	if err := w.requireOpen("Inputs"); err != nil {
		return err
	}

	sourceFiles := make([]*SourceFile, 0, len(rec.SourceFiles))
	for _, src := range rec.SourceFiles {
		s, err := src.ensureSourceFile(w)
		if err != nil {
			return err
		}
		sourceFiles = append(sourceFiles, s)
	}
	databases := make([]*SearchDatabase, 0, len(rec.SearchDatabases))
	for _, src := range rec.SearchDatabases {
		s, err := src.ensureSearchDatabase(w)
		if err != nil {
			return err
		}
		databases = append(databases, s)
	}
	spectra := make([]*SpectraData, 0, len(rec.SpectraData))
	for _, src := range rec.SpectraData {
		s, err := src.ensureSpectraData(w)
		if err != nil {
			return err
		}
		spectra = append(spectra, s)
	}

	err := w.writeElement("Inputs", nil, func() error {
		for _, s := range sourceFiles {
			if err := s.write(w); err != nil {
				return err
			}
		}
		for _, s := range databases {
			if err := s.write(w); err != nil {
				return err
			}
		}
		for _, s := range spectra {
			if err := s.write(w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.sink.Flush()
}

// lookupFileFormat maps a loosely supplied format name onto its term. An
// unknown name is dropped with a warning: the format is recommended, not
// required, and a wrong cvParam is worse than an absent one.
func lookupFileFormat(element, name string) cv.Term {
	if name == "" {
		return cv.Term{}
	}
	if term, ok := cv.TermByName(name); ok {
		return term
	}
	slog.Warn("unrecognized file format omitted",
		"element", element,
		"format", name)
	return cv.Term{}
}

func writeFileFormat(w *Writer, term cv.Term) error {
	if term.IsZero() {
		return nil
	}
	return w.writeElement("FileFormat", nil, func() error {
		return cvTermParam(term, nil).write(w.sink)
	})
}
