package service

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"pulseboard/internal/domain"
)

// FilterKind says what a filter entry points at.
type FilterKind int

const (
	FilterEngineer FilterKind = iota
	FilterProject
)

// FilterItem is one entry in the filter index.
type FilterItem struct {
	Kind  FilterKind
	ID    string
	Title string // Display title, also the searchable text
}

// FilterResult is a match with metadata for highlighting.
type FilterResult struct {
	FilterItem
	MatchedIndexes []int // Character positions that matched
	Score          int   // Higher is better
}

// filterIndex implements sahilm/fuzzy.Source for zero-allocation matching
type filterIndex struct {
	items       []FilterItem
	lowerTitles []string // Pre-computed lowercase titles
}

func (idx *filterIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx *filterIndex) Len() int            { return len(idx.items) }

// FilterService keeps a fuzzy-searchable index of engineers and projects
// for the filter bar.
type FilterService struct {
	logger *slog.Logger

	mu       sync.RWMutex
	index    *filterIndex
	indexed  map[string]bool // Track indexed keys to avoid duplicates
	projects []domain.Project
}

func NewFilterService(logger *slog.Logger) *FilterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterService{
		logger:  logger,
		index:   &filterIndex{},
		indexed: make(map[string]bool),
	}
}

// Rebuild replaces the index with the current dashboard data.
func (s *FilterService) Rebuild(engineers []domain.Engineer, projects []domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = &filterIndex{}
	s.indexed = make(map[string]bool)
	s.projects = append([]domain.Project(nil), projects...)

	for _, e := range engineers {
		s.addLocked(FilterItem{Kind: FilterEngineer, ID: e.ID, Title: e.Name})
	}
	for _, p := range projects {
		s.addLocked(FilterItem{Kind: FilterProject, ID: p.ID, Title: p.Name})
	}

	s.logger.Debug("filter index rebuilt", "entries", s.index.Len())
}

func (s *FilterService) addLocked(item FilterItem) {
	key := keyFor(item)
	if s.indexed[key] {
		return
	}
	s.indexed[key] = true
	s.index.items = append(s.index.items, item)
	s.index.lowerTitles = append(s.index.lowerTitles, strings.ToLower(item.Title))
}

func keyFor(item FilterItem) string {
	if item.Kind == FilterEngineer {
		return "engineer:" + item.ID
	}
	return "project:" + item.ID
}

// Filter matches the query against the index and returns results with
// matched character positions for highlighting. Engineers come first in
// match-score order; projects follow, ordered by edit distance so a short
// name beats a long one that merely contains the query.
func (s *FilterService) Filter(query string) []FilterResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || s.index.Len() == 0 {
		return nil
	}

	matches := sahilm.FindFrom(query, s.index)

	var results []FilterResult
	projectMatches := make(map[string]sahilm.Match)
	var projectOrder []string
	for _, match := range matches {
		item := s.index.items[match.Index]
		if item.Kind == FilterProject {
			projectMatches[item.ID] = match
			projectOrder = append(projectOrder, item.ID)
			continue
		}
		results = append(results, FilterResult{
			FilterItem:     item,
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		})
	}

	seen := make(map[string]bool, len(projectMatches))
	for _, p := range RankProjects(query, s.projects) {
		match, ok := projectMatches[p.ID]
		if !ok {
			continue
		}
		seen[p.ID] = true
		results = append(results, FilterResult{
			FilterItem:     s.index.items[match.Index],
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		})
	}
	// Keep anything the ranker missed rather than dropping a match.
	for _, id := range projectOrder {
		if seen[id] {
			continue
		}
		match := projectMatches[id]
		results = append(results, FilterResult{
			FilterItem:     s.index.items[match.Index],
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		})
	}
	return results
}

// Count returns the number of indexed entries.
func (s *FilterService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// RankProjects orders projects by fuzzy closeness to the query, folding
// case. Projects the ranker finds no match for are omitted.
func RankProjects(query string, projects []domain.Project) []domain.Project {
	if strings.TrimSpace(query) == "" {
		return projects
	}

	names := make([]string, len(projects))
	byName := make(map[string][]domain.Project, len(projects))
	for i, p := range projects {
		names[i] = p.Name
		byName[p.Name] = append(byName[p.Name], p)
	}

	ranks := fuzzy.RankFindFold(query, names)
	sort.Slice(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	results := make([]domain.Project, 0, len(ranks))
	seen := make(map[string]bool)
	for _, rank := range ranks {
		for _, p := range byName[rank.Target] {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			results = append(results, p)
		}
	}
	return results
}
