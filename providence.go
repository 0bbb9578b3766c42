package mzidstream

import (
	"github.com/roach88/mzidstream/internal/cv"
	"github.com/roach88/mzidstream/internal/identity"
	"github.com/roach88/mzidstream/internal/xmlsink"
)

// Identifiers registered when Providence is called with no owner and no
// organization. They are registered exactly once per document, so later
// references to the default organization resolve to the same id.
const (
	DefaultOrganizationID = "ORG_DEFAULT"
	DefaultContactID      = "PERSON_DEFAULT"
)

// SoftwareRecord describes one AnalysisSoftware entity.
type SoftwareRecord struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Version string  `yaml:"version"`
	URI     string  `yaml:"uri"`
	Params  []Param `yaml:"-"`
}

// AnalysisSoftware is a built, registered software entity.
type AnalysisSoftware struct {
	id      string
	name    string
	version string
	uri     string
	params  []Param
}

// ID returns the registered identifier.
func (s *AnalysisSoftware) ID() string { return s.id }

// AnalysisSoftwareSource is either a built *AnalysisSoftware or a
// SoftwareRecord; it is resolved once at the API boundary.
type AnalysisSoftwareSource interface {
	ensureAnalysisSoftware(w *Writer) (*AnalysisSoftware, error)
}

func (s *AnalysisSoftware) ensureAnalysisSoftware(*Writer) (*AnalysisSoftware, error) {
	return s, nil
}

func (r SoftwareRecord) ensureAnalysisSoftware(w *Writer) (*AnalysisSoftware, error) {
	return w.NewAnalysisSoftware(r)
}

// NewAnalysisSoftware builds and registers an AnalysisSoftware from rec.
func (w *Writer) NewAnalysisSoftware(rec SoftwareRecord) (*AnalysisSoftware, error) {
	if rec.Name == "" {
		return nil, newBadRecordError("AnalysisSoftware", "software name is required")
	}
	return &AnalysisSoftware{
		id:      w.reg.Register(identity.CategoryAnalysisSoftware, rec.ID),
		name:    rec.Name,
		version: rec.Version,
		uri:     rec.URI,
		params:  rec.Params,
	}, nil
}

func (s *AnalysisSoftware) write(w *Writer) error {
	attrs := []xmlsink.Attr{
		{Name: "id", Value: s.id},
		{Name: "name", Value: formatValue(s.name)},
	}
	if s.version != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "version", Value: s.version})
	}
	if s.uri != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "uri", Value: s.uri})
	}
	return w.writeElement("AnalysisSoftware", attrs, func() error {
		if err := writeParams(w.sink, s.params); err != nil {
			return err
		}
		// SoftwareName holds the software as a cvParam when the name is a
		// recognized term, a userParam otherwise.
		return w.writeElement("SoftwareName", nil, func() error {
			return CV(s.name, nil).write(w.sink)
		})
	})
}

// OrganizationRecord describes one Organization entity.
type OrganizationRecord struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Params []Param `yaml:"-"`
}

// Organization is a built, registered organization entity.
type Organization struct {
	id     string
	name   string
	params []Param
}

// ID returns the registered identifier.
func (o *Organization) ID() string { return o.id }

// OrganizationSource is either a built *Organization or an
// OrganizationRecord.
type OrganizationSource interface {
	ensureOrganization(w *Writer) (*Organization, error)
}

func (o *Organization) ensureOrganization(*Writer) (*Organization, error) { return o, nil }

func (r OrganizationRecord) ensureOrganization(w *Writer) (*Organization, error) {
	return w.NewOrganization(r)
}

// NewOrganization builds and registers an Organization from rec.
func (w *Writer) NewOrganization(rec OrganizationRecord) (*Organization, error) {
	return &Organization{
		id:     w.reg.Register(identity.CategoryOrganization, rec.ID),
		name:   rec.Name,
		params: rec.Params,
	}, nil
}

func (o *Organization) write(w *Writer) error {
	attrs := []xmlsink.Attr{{Name: "id", Value: o.id}}
	if o.name != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "name", Value: formatValue(o.name)})
	}
	return w.writeLeaf("Organization", attrs, o.params)
}

// PersonRecord describes one Person entity. Affiliation names an
// Organization identifier and is checked against the registry.
type PersonRecord struct {
	ID          string  `yaml:"id"`
	FirstName   string  `yaml:"first_name"`
	LastName    string  `yaml:"last_name"`
	Affiliation string  `yaml:"affiliation"`
	Params      []Param `yaml:"-"`
}

// Person is a built, registered person entity.
type Person struct {
	id          string
	firstName   string
	lastName    string
	affiliation string
	params      []Param
}

// ID returns the registered identifier.
func (p *Person) ID() string { return p.id }

// PersonSource is either a built *Person or a PersonRecord.
type PersonSource interface {
	ensurePerson(w *Writer) (*Person, error)
}

func (p *Person) ensurePerson(*Writer) (*Person, error) { return p, nil }

func (r PersonRecord) ensurePerson(w *Writer) (*Person, error) {
	return w.NewPerson(r)
}

// NewPerson builds and registers a Person from rec. A non-empty affiliation
// must already be registered as an Organization.
func (w *Writer) NewPerson(rec PersonRecord) (*Person, error) {
	affiliation := rec.Affiliation
	if affiliation != "" {
		resolved, err := w.reg.Resolve(identity.CategoryOrganization, affiliation)
		if err != nil {
			return nil, err
		}
		affiliation = resolved
	}
	return &Person{
		id:          w.reg.Register(identity.CategoryPerson, rec.ID),
		firstName:   rec.FirstName,
		lastName:    rec.LastName,
		affiliation: affiliation,
		params:      rec.Params,
	}, nil
}

func (p *Person) write(w *Writer) error {
	attrs := []xmlsink.Attr{{Name: "id", Value: p.id}}
	if p.firstName != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "firstName", Value: formatValue(p.firstName)})
	}
	if p.lastName != "" {
		attrs = append(attrs, xmlsink.Attr{Name: "lastName", Value: formatValue(p.lastName)})
	}
	return w.writeElement("Person", attrs, func() error {
		if err := writeParams(w.sink, p.params); err != nil {
			return err
		}
		if p.affiliation == "" {
			return nil
		}
		return w.writeElement("Affiliation",
			[]xmlsink.Attr{{Name: "organization_ref", Value: p.affiliation}}, nil)
	})
}

// Providence supplies the analysis providence section: the software used,
// the owning person, and their organization. Any of the fields may mix
// built entities and records.
type Providence struct {
	Software     []AnalysisSoftwareSource
	Owner        []PersonSource
	Organization []OrganizationSource
}

// Providence writes the providence segment: AnalysisSoftwareList, Provider,
// and AuditCollection. Write it before any section that references software
// or contacts.
//
// When neither owner nor organization is supplied, a default pair is
// synthesized and registered under DefaultOrganizationID/DefaultContactID.
// Registration is idempotent, so the defaults are registered exactly once
// no matter how references to them are resolved later.
func (w *Writer) Providence(p Providence) error {
	if err := w.requireOpen("Providence"); err != nil {
		return err
	}

	software := make([]*AnalysisSoftware, 0, len(p.Software))
	for _, src := range p.Software {
		s, err := src.ensureAnalysisSoftware(w)
		if err != nil {
			return err
		}
		software = append(software, s)
	}

	// Organizations before persons: affiliations resolve against the
	// registry at person construction.
	organizations := make([]*Organization, 0, len(p.Organization))
	for _, src := range p.Organization {
		o, err := src.ensureOrganization(w)
		if err != nil {
			return err
		}
		organizations = append(organizations, o)
	}
	owners := make([]*Person, 0, len(p.Owner))
	for _, src := range p.Owner {
		o, err := src.ensurePerson(w)
		if err != nil {
			return err
		}
		owners = append(owners, o)
	}

	if len(owners) == 0 && len(organizations) == 0 {
		orgID := w.reg.Register(identity.CategoryOrganization, DefaultOrganizationID)
		organizations = append(organizations, &Organization{id: orgID})
		personID := w.reg.Register(identity.CategoryPerson, DefaultContactID)
		owners = append(owners, &Person{id: personID, affiliation: orgID})
	}

	if len(software) > 0 {
		err := w.writeElement("AnalysisSoftwareList", nil, func() error {
			for _, s := range software {
				if err := s.write(w); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if len(owners) > 0 {
		if err := w.writeProvider(owners[0].id); err != nil {
			return err
		}
	}

	err := w.writeElement("AuditCollection", nil, func() error {
		for _, o := range owners {
			if err := o.write(w); err != nil {
				return err
			}
		}
		for _, o := range organizations {
			if err := o.write(w); err != nil {
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

// writeProvider emits the Provider element naming the document owner in the
// researcher role.
func (w *Writer) writeProvider(contactID string) error {
	if _, err := w.reg.Resolve(identity.CategoryPerson, contactID); err != nil {
		return err
	}
	return w.writeElement("Provider", []xmlsink.Attr{{Name: "id", Value: "PROVIDER"}}, func() error {
		return w.writeElement("ContactRole",
			[]xmlsink.Attr{{Name: "contact_ref", Value: contactID}}, func() error {
				return w.writeElement("Role", nil, func() error {
					return cvTermParam(cv.ResearcherRole, nil).write(w.sink)
				})
			})
	})
}
