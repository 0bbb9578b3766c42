package mzidstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvidence_FullOutput(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	err := w.Providence(Providence{
		Software: []AnalysisSoftwareSource{
			SoftwareRecord{ID: "SW_1", Name: "Mascot", Version: "2.8"},
		},
		Organization: []OrganizationSource{
			OrganizationRecord{ID: "ORG_1", Name: "Example Lab"},
		},
		Owner: []PersonSource{
			PersonRecord{ID: "PERSON_1", FirstName: "Ada", LastName: "Lovelace", Affiliation: "ORG_1"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Contains(t, out, `<AnalysisSoftware id="SW_1" name="Mascot" version="2.8">`)
	assert.Contains(t, out, "<SoftwareName>")
	assert.Contains(t, out, `accession="MS:1001207"`, "Mascot resolves to its software term")
	assert.Contains(t, out, `<Provider id="PROVIDER">`)
	assert.Contains(t, out, `<ContactRole contact_ref="PERSON_1">`)
	assert.Contains(t, out, `accession="MS:1001271"`, "owner carries the researcher role")
	assert.Contains(t, out, `<Person id="PERSON_1" firstName="Ada" lastName="Lovelace">`)
	assert.Contains(t, out, `<Affiliation organization_ref="ORG_1">`)
	assert.Contains(t, out, `<Organization id="ORG_1" name="Example Lab">`)

	// AnalysisSoftwareList precedes Provider precedes AuditCollection.
	swList := strings.Index(out, "<AnalysisSoftwareList>")
	provider := strings.Index(out, "<Provider")
	audit := strings.Index(out, "<AuditCollection>")
	assert.Less(t, swList, provider)
	assert.Less(t, provider, audit)
}

func TestProvidence_DefaultsInjectedOnce(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	require.NoError(t, w.Providence(Providence{
		Software: []AnalysisSoftwareSource{SoftwareRecord{Name: "ProteinProspector"}},
	}))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, `<Person id="PERSON_DEFAULT">`))
	assert.Equal(t, 1, strings.Count(out, `<Organization id="ORG_DEFAULT">`))
	assert.Contains(t, out, `<Affiliation organization_ref="ORG_DEFAULT">`)
	assert.Contains(t, out, `<ContactRole contact_ref="PERSON_DEFAULT">`)

	// Later references to the defaults resolve against the registry.
	id, err := w.Resolve(CategoryPerson, DefaultContactID)
	require.NoError(t, err)
	assert.Equal(t, "PERSON_DEFAULT", id)
	id, err = w.Resolve(CategoryOrganization, DefaultOrganizationID)
	require.NoError(t, err)
	assert.Equal(t, "ORG_DEFAULT", id)
}

func TestProvidence_NoDefaultsWhenOwnerSupplied(t *testing.T) {
	w, buf := newTestWriter(t)
	require.NoError(t, w.Begin())

	require.NoError(t, w.Providence(Providence{
		Owner: []PersonSource{PersonRecord{ID: "PERSON_1", LastName: "Curie"}},
	}))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.NotContains(t, out, "PERSON_DEFAULT")
	assert.NotContains(t, out, "ORG_DEFAULT")
	_, err := w.Resolve(CategoryOrganization, DefaultOrganizationID)
	assert.True(t, IsDanglingReference(err))
}

func TestProvidence_DanglingAffiliation(t *testing.T) {
	w, _ := newTestWriter(t)
	require.NoError(t, w.Begin())

	err := w.Providence(Providence{
		Owner: []PersonSource{PersonRecord{ID: "PERSON_1", Affiliation: "ORG_MISSING"}},
	})
	require.Error(t, err)
	assert.True(t, IsDanglingReference(err))
}

func TestProvidence_SoftwareNameRequired(t *testing.T) {
	w, _ := newTestWriter(t)
	require.NoError(t, w.Begin())

	err := w.Providence(Providence{
		Software: []AnalysisSoftwareSource{SoftwareRecord{ID: "SW_1"}},
	})
	require.Error(t, err)
	assert.True(t, IsBadRecord(err))
}

func TestProvidence_AutoIdentifiers(t *testing.T) {
	w, _ := newTestWriter(t)
	require.NoError(t, w.Begin())

	sw, err := w.NewAnalysisSoftware(SoftwareRecord{Name: "Comet"})
	require.NoError(t, err)
	assert.Equal(t, "SW_1", sw.ID())

	sw2, err := w.NewAnalysisSoftware(SoftwareRecord{Name: "Tide"})
	require.NoError(t, err)
	assert.Equal(t, "SW_2", sw2.ID())

	require.NoError(t, w.Close())
}
