package query

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

func str(s string) *string { return &s }

func typ(t domain.PropertyType) *domain.PropertyType { return &t }

func sampleCatalog() []domain.PropertyRecord {
	return []domain.PropertyRecord{
		{
			ID: "prop1", Type: domain.PropertyTypeHouse, Bedrooms: 3, Price: 750000,
			Location: "Petts Wood Road, Petts Wood, Orpington BR5",
			Added:    domain.AddedDate{Month: "October", Day: 12, Year: 2024},
		},
		{
			ID: "prop2", Type: domain.PropertyTypeFlat, Bedrooms: 2, Price: 399995,
			Location: "Crofton Road, Orpington BR6",
			Added:    domain.AddedDate{Month: "September", Day: 14, Year: 2024},
		},
		{
			ID: "prop3", Type: domain.PropertyTypeHouse, Bedrooms: 5, Price: 1250000,
			Location: "Bromley Common, Bromley BR2",
			Added:    domain.AddedDate{Month: "November", Day: 5, Year: 2024},
		},
	}
}

func ids(recs []domain.PropertyRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestFilter_Scenarios(t *testing.T) {
	catalog := sampleCatalog()

	tests := []struct {
		name     string
		criteria domain.SearchCriteria
		want     []string
	}{
		{"no criteria", domain.SearchCriteria{}, []string{"prop1", "prop2", "prop3"}},
		{"type house", domain.SearchCriteria{Type: typ(domain.PropertyTypeHouse)}, []string{"prop1", "prop3"}},
		{"min price", domain.SearchCriteria{MinPrice: str("400000")}, []string{"prop1", "prop3"}},
		{"max price", domain.SearchCriteria{MaxPrice: str("800000")}, []string{"prop1", "prop2"}},
		{"min bedrooms", domain.SearchCriteria{MinBedrooms: str("3")}, []string{"prop1", "prop3"}},
		{"postcode", domain.SearchCriteria{Postcode: str("BR6")}, []string{"prop2"}},
		{"multiple", domain.SearchCriteria{
			Type: typ(domain.PropertyTypeFlat), MinPrice: str("300000"), MaxPrice: str("500000"),
			MinBedrooms: str("2"), MaxBedrooms: str("2"), Postcode: str("BR6"),
		}, []string{"prop2"}},
		{"no matches", domain.SearchCriteria{Type: typ(domain.PropertyTypeHouse), MinPrice: str("2000000")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(catalog, tt.criteria)))
		})
	}
}

func TestFilter_MultipleCriteriaSingleMismatch(t *testing.T) {
	base := func() domain.SearchCriteria {
		return domain.SearchCriteria{
			Type: typ(domain.PropertyTypeFlat), MinPrice: str("300000"), MaxPrice: str("500000"),
			MinBedrooms: str("2"), MaxBedrooms: str("2"), Postcode: str("BR6"),
		}
	}
	mutations := map[string]func(*domain.SearchCriteria){
		"type":         func(c *domain.SearchCriteria) { c.Type = typ(domain.PropertyTypeHouse) },
		"min price":    func(c *domain.SearchCriteria) { c.MinPrice = str("400000") },
		"max price":    func(c *domain.SearchCriteria) { c.MaxPrice = str("300000") },
		"min bedrooms": func(c *domain.SearchCriteria) { c.MinBedrooms = str("3") },
		"max bedrooms": func(c *domain.SearchCriteria) { c.MaxBedrooms = str("1") },
		"postcode":     func(c *domain.SearchCriteria) { c.Postcode = str("BR5") },
	}
	for name, mutate := range mutations {
		c := base()
		mutate(&c)
		assert.Empty(t, Filter(sampleCatalog(), c), name)
	}
}

func TestFilter_UnparseableBoundsAreIgnored(t *testing.T) {
	catalog := sampleCatalog()
	c := domain.SearchCriteria{
		MinPrice:    str("cheap"),
		MaxPrice:    str("£800k"),
		MinBedrooms: str("three"),
		MaxBedrooms: str(""),
	}
	assert.Equal(t, ids(catalog), ids(Filter(catalog, c)))

	// the other bound still applies
	c.MaxPrice = str(" 800000 ")
	assert.Equal(t, []string{"prop1", "prop2"}, ids(Filter(catalog, c)))
}

func TestFilter_PostcodePrefixRule(t *testing.T) {
	rec := sampleCatalog()[0] // BR5

	for _, crit := range []string{"BR5", "BR", "br5", " br "} {
		assert.True(t, Matches(rec, domain.SearchCriteria{Postcode: str(crit)}), crit)
	}
	for _, crit := range []string{"BR55", "5", "R5", "BR6", "Orpington"} {
		assert.False(t, Matches(rec, domain.SearchCriteria{Postcode: str(crit)}), crit)
	}

	noToken := domain.PropertyRecord{ID: "x", Location: "somewhere in the countryside"}
	assert.False(t, Matches(noToken, domain.SearchCriteria{Postcode: str("BR")}))
	assert.True(t, Matches(noToken, domain.SearchCriteria{Postcode: str("  ")}))
}

func TestFilter_TypeIsExactOnceParsed(t *testing.T) {
	rec := sampleCatalog()[0] // House

	assert.True(t, Matches(rec, domain.SearchCriteria{Type: typ(domain.PropertyTypeHouse)}))
	assert.False(t, Matches(rec, domain.SearchCriteria{Type: typ("house")}))
	assert.True(t, Matches(rec, domain.CriteriaForm{Type: "house"}.Criteria()))
}

func TestFilter_DateInclusivity(t *testing.T) {
	catalog := sampleCatalog()

	after := DateOn(2024, time.October, 12)
	assert.Equal(t, []string{"prop1", "prop3"}, ids(Filter(catalog, domain.SearchCriteria{DateAfter: after})))

	before := DateOn(2024, time.October, 12)
	assert.Equal(t, []string{"prop1", "prop2"}, ids(Filter(catalog, domain.SearchCriteria{DateBefore: before})))

	both := domain.SearchCriteria{DateAfter: after, DateBefore: before}
	assert.Equal(t, []string{"prop1"}, ids(Filter(catalog, both)))

	// a time of day on the bound does not push the record out
	late := time.Date(2024, time.October, 12, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, []string{"prop1", "prop3"}, ids(Filter(catalog, domain.SearchCriteria{DateAfter: &late})))
}

func TestFilter_UnknownMonthIsJanuary(t *testing.T) {
	rec := domain.PropertyRecord{ID: "odd", Added: domain.AddedDate{Month: "Smarch", Day: 3, Year: 2024}}
	assert.True(t, Matches(rec, domain.SearchCriteria{DateBefore: DateOn(2024, time.January, 3)}))
	assert.False(t, Matches(rec, domain.SearchCriteria{DateAfter: DateOn(2024, time.January, 4)}))
}

func TestFilter_IdentityAndSubsetProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	types := []domain.PropertyType{domain.PropertyTypeHouse, domain.PropertyTypeFlat}
	areas := []string{"BR1", "BR5", "SE9", "TN14", ""}

	catalog := make([]domain.PropertyRecord, 60)
	for i := range catalog {
		catalog[i] = domain.PropertyRecord{
			ID:       string(rune('a'+i%26)) + string(rune('A'+i/26)),
			Type:     types[r.Intn(len(types))],
			Price:    r.Intn(2000000),
			Bedrooms: r.Intn(7),
			Location: "Some Road, Kent " + areas[r.Intn(len(areas))],
			Added:    domain.AddedDate{Month: "March", Day: 1 + r.Intn(28), Year: 2023 + r.Intn(3)},
		}
	}

	require.Equal(t, catalog, Filter(catalog, domain.SearchCriteria{}))

	for i := 0; i < 50; i++ {
		c := domain.SearchCriteria{}
		if r.Intn(2) == 0 {
			c.Type = typ(types[r.Intn(2)])
		}
		if r.Intn(2) == 0 {
			c.MinPrice = str("500000")
		}
		if r.Intn(2) == 0 {
			c.MaxBedrooms = str("4")
		}
		if r.Intn(2) == 0 {
			c.Postcode = str("BR")
		}
		if r.Intn(2) == 0 {
			c.DateAfter = DateOn(2024, time.March, 10)
		}

		got := Filter(catalog, c)

		// subsequence of the catalog, every element satisfies the criteria
		j := 0
		for _, rec := range got {
			for j < len(catalog) && catalog[j].ID != rec.ID {
				j++
			}
			require.Less(t, j, len(catalog), "result is not a subsequence")
			require.True(t, Matches(rec, c))
			j++
		}
		// and nothing matching was left out
		n := 0
		for _, rec := range catalog {
			if Matches(rec, c) {
				n++
			}
		}
		require.Len(t, got, n)
	}
}
