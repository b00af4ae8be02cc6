package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain"
)

func testEngineers() []domain.Engineer {
	return []domain.Engineer{
		{ID: "e1", Name: "Dana Whitfield"},
		{ID: "e2", Name: "Marcus Oyelaran"},
	}
}

func testProjects() []domain.Project {
	return []domain.Project{
		{ID: "p1", Name: "Billing Pipeline"},
		{ID: "p2", Name: "Search Relevance"},
	}
}

func TestFilterMatchesAcrossKinds(t *testing.T) {
	s := NewFilterService(nil)
	s.Rebuild(testEngineers(), testProjects())
	assert.Equal(t, 4, s.Count())

	results := s.Filter("dana")
	require.NotEmpty(t, results)
	assert.Equal(t, FilterEngineer, results[0].Kind)
	assert.Equal(t, "e1", results[0].ID)

	results = s.Filter("billing")
	require.NotEmpty(t, results)
	assert.Equal(t, FilterProject, results[0].Kind)
}

func TestFilterReturnsMatchedIndexes(t *testing.T) {
	s := NewFilterService(nil)
	s.Rebuild(testEngineers(), nil)

	results := s.Filter("dana")
	require.NotEmpty(t, results)
	// "dana" matches the first four characters of "Dana Whitfield".
	assert.Equal(t, []int{0, 1, 2, 3}, results[0].MatchedIndexes)
}

func TestFilterEmptyQuery(t *testing.T) {
	s := NewFilterService(nil)
	s.Rebuild(testEngineers(), testProjects())

	assert.Nil(t, s.Filter(""))
	assert.Nil(t, s.Filter("   "))
}

func TestRebuildReplacesIndex(t *testing.T) {
	s := NewFilterService(nil)
	s.Rebuild(testEngineers(), testProjects())
	require.Equal(t, 4, s.Count())

	s.Rebuild(nil, testProjects())
	assert.Equal(t, 2, s.Count())
	assert.Empty(t, s.Filter("dana"))
}

func TestRebuildDeduplicates(t *testing.T) {
	s := NewFilterService(nil)
	dup := append(testEngineers(), testEngineers()...)
	s.Rebuild(dup, nil)
	assert.Equal(t, 2, s.Count())
}

func TestFilterRanksProjectsByCloseness(t *testing.T) {
	s := NewFilterService(nil)
	s.Rebuild(nil, []domain.Project{
		{ID: "p1", Name: "Search Relevance Platform"},
		{ID: "p2", Name: "Search API"},
	})

	results := s.Filter("search")
	require.Len(t, results, 2)
	// The shorter name is the closer match, whatever the subsequence
	// scores say.
	assert.Equal(t, "p2", results[0].ID)
	assert.Equal(t, "p1", results[1].ID)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, results[0].MatchedIndexes)
}

func TestFilterListsEngineersBeforeProjects(t *testing.T) {
	s := NewFilterService(nil)
	s.Rebuild(
		[]domain.Engineer{{ID: "e1", Name: "Mara Billingsley"}},
		[]domain.Project{{ID: "p1", Name: "Billing Pipeline"}},
	)

	results := s.Filter("bill")
	require.Len(t, results, 2)
	assert.Equal(t, FilterEngineer, results[0].Kind)
	assert.Equal(t, FilterProject, results[1].Kind)
}

func TestRankProjectsOrdersByCloseness(t *testing.T) {
	projects := []domain.Project{
		{ID: "p1", Name: "Billing Pipeline"},
		{ID: "p2", Name: "Search Relevance"},
		{ID: "p3", Name: "Bill Reminders"},
	}

	ranked := RankProjects("bill", projects)
	require.Len(t, ranked, 2)
	for _, p := range ranked {
		assert.Contains(t, []string{"p1", "p3"}, p.ID)
	}

	// Empty query keeps the original ordering.
	same := RankProjects("", projects)
	assert.Equal(t, projects, same)
}
