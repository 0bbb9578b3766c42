package mzidstream

import (
	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// SpectrumIdentificationRecord links an identification protocol to the
// spectra and databases it was run over, and to the list its results land
// in. Every reference must be registered already; lists declared later in
// the document are pre-registered with Writer.Register.
type SpectrumIdentificationRecord struct {
	ID                 string   `yaml:"id"`
	ProtocolRef        string   `yaml:"protocol_ref"`
	ListRef            string   `yaml:"list_ref"`
	SpectraDataRefs    []string `yaml:"spectra_data_refs"`
	SearchDatabaseRefs []string `yaml:"search_database_refs"`
}

// WriteSpectrumIdentification writes one SpectrumIdentification element.
// Call inside AnalysisCollection.
func (w *Writer) WriteSpectrumIdentification(rec SpectrumIdentificationRecord) error {
	if err := w.requireOpen("SpectrumIdentification"); err != nil {
		return err
	}
	protocolRef, err := w.reg.Resolve(identity.CategorySpectrumIdentificationProtocol, rec.ProtocolRef)
	if err != nil {
		return err
	}
	listRef, err := w.reg.Resolve(identity.CategorySpectrumIdentificationList, rec.ListRef)
	if err != nil {
		return err
	}
	spectraRefs := make([]string, 0, len(rec.SpectraDataRefs))
	for _, ref := range rec.SpectraDataRefs {
		resolved, err := w.reg.Resolve(identity.CategorySpectraData, ref)
		if err != nil {
			return err
		}
		spectraRefs = append(spectraRefs, resolved)
	}
	databaseRefs := make([]string, 0, len(rec.SearchDatabaseRefs))
	for _, ref := range rec.SearchDatabaseRefs {
		resolved, err := w.reg.Resolve(identity.CategorySearchDatabase, ref)
		if err != nil {
			return err
		}
		databaseRefs = append(databaseRefs, resolved)
	}

	id := w.reg.Register(identity.CategorySpectrumIdentification, rec.ID)
	attrs := []xmlsink.Attr{
		{Name: "id", Value: id},
		{Name: "spectrumIdentificationProtocol_ref", Value: protocolRef},
		{Name: "spectrumIdentificationList_ref", Value: listRef},
	}
	return w.writeElement("SpectrumIdentification", attrs, func() error {
		for _, ref := range spectraRefs {
			err := w.writeElement("InputSpectra",
				[]xmlsink.Attr{{Name: "spectraData_ref", Value: ref}}, nil)
			if err != nil {
				return err
			}
		}
		for _, ref := range databaseRefs {
			err := w.writeElement("SearchDatabaseRef",
				[]xmlsink.Attr{{Name: "searchDatabase_ref", Value: ref}}, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ProteinDetectionRecord links the protein detection protocol to its input
// identification lists and its output detection list.
type ProteinDetectionRecord struct {
	ID                          string   `yaml:"id"`
	ProtocolRef                 string   `yaml:"protocol_ref"`
	ListRef                     string   `yaml:"list_ref"`
	InputIdentificationListRefs []string `yaml:"input_identification_list_refs"`
}

// WriteProteinDetection writes one ProteinDetection element.
// Call inside AnalysisCollection.
func (w *Writer) WriteProteinDetection(rec ProteinDetectionRecord) error {
	if err := w.requireOpen("ProteinDetection"); err != nil {
		return err
	}
	protocolRef, err := w.reg.Resolve(identity.CategoryProteinDetectionProtocol, rec.ProtocolRef)
	if err != nil {
		return err
	}
	listRef, err := w.reg.Resolve(identity.CategoryProteinDetectionList, rec.ListRef)
	if err != nil {
		return err
	}
	inputRefs := make([]string, 0, len(rec.InputIdentificationListRefs))
	for _, ref := range rec.InputIdentificationListRefs {
		resolved, err := w.reg.Resolve(identity.CategorySpectrumIdentificationList, ref)
		if err != nil {
			return err
		}
		inputRefs = append(inputRefs, resolved)
	}

	id := w.reg.Register(identity.CategoryProteinDetection, rec.ID)
	attrs := []xmlsink.Attr{
		{Name: "id", Value: id},
		{Name: "proteinDetectionProtocol_ref", Value: protocolRef},
		{Name: "proteinDetectionList_ref", Value: listRef},
	}
	return w.writeElement("ProteinDetection", attrs, func() error {
		for _, ref := range inputRefs {
			err := w.writeElement("InputSpectrumIdentifications",
				[]xmlsink.Attr{{Name: "spectrumIdentificationList_ref", Value: ref}}, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
