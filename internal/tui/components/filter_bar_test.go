package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pulseboard/internal/domain"
	"pulseboard/internal/service"
)

func TestMatchedRunesUsesByteOffsets(t *testing.T) {
	// "Ünal" is five bytes; the matcher reports byte offsets 2 and 3 for
	// "na", which are rune positions 1 and 2.
	hits := matchedRunes("Ünal", []int{2, 3})
	assert.Equal(t, map[int]bool{1: true, 2: true}, hits)
}

func TestMatchedRunesAscii(t *testing.T) {
	hits := matchedRunes("Dana", []int{0, 1})
	assert.Equal(t, map[int]bool{0: true, 1: true}, hits)
}

func TestMatchedRunesEmpty(t *testing.T) {
	assert.Nil(t, matchedRunes("Dana", nil))
}

func TestFilterBarShowsIndexSize(t *testing.T) {
	svc := service.NewFilterService(nil)
	svc.Rebuild(
		[]domain.Engineer{{ID: "e1", Name: "Dana Whitfield"}},
		[]domain.Project{{ID: "p1", Name: "Billing Pipeline"}},
	)

	f := NewFilterBar(svc)
	assert.Contains(t, f.View(), "2 entries")
}
