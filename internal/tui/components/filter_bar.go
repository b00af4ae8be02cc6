package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pulseboard/internal/service"
	"pulseboard/internal/tui/styles"
)

const maxFilterResults = 8

// FilterBar is the fuzzy filter prompt plus its result list. Typing queries
// the FilterService; enter jumps to the selected match.
type FilterBar struct {
	input   textinput.Model
	svc     *service.FilterService
	results []service.FilterResult
	cursor  int
}

func NewFilterBar(svc *service.FilterService) FilterBar {
	ti := textinput.New()
	ti.Placeholder = "engineer or project"
	ti.Prompt = styles.FilterPromptStyle.Render("/ ")
	ti.CharLimit = 64

	return FilterBar{input: ti, svc: svc}
}

func (f *FilterBar) Open() tea.Cmd {
	f.input.SetValue("")
	f.results = nil
	f.cursor = 0
	return f.input.Focus()
}

func (f *FilterBar) Close() {
	f.input.Blur()
	f.input.SetValue("")
	f.results = nil
	f.cursor = 0
}

func (f FilterBar) Update(msg tea.Msg) (FilterBar, tea.Cmd) {
	var cmd tea.Cmd
	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)

	if f.input.Value() != before {
		f.results = f.svc.Filter(f.input.Value())
		if len(f.results) > maxFilterResults {
			f.results = f.results[:maxFilterResults]
		}
		f.cursor = 0
	}
	return f, cmd
}

func (f *FilterBar) MoveCursor(delta int) {
	f.cursor += delta
	if f.cursor < 0 {
		f.cursor = 0
	}
	if max := len(f.results) - 1; f.cursor > max && max >= 0 {
		f.cursor = max
	}
}

// Selected returns the highlighted result, if any.
func (f FilterBar) Selected() *service.FilterResult {
	if f.cursor < 0 || f.cursor >= len(f.results) {
		return nil
	}
	return &f.results[f.cursor]
}

func (f FilterBar) View() string {
	var b strings.Builder
	b.WriteString(f.input.View())
	b.WriteString("\n")

	for i, res := range f.results {
		kind := "eng "
		if res.Kind == service.FilterProject {
			kind = "proj"
		}
		line := styles.DimStyle.Render(kind) + " " + highlightMatches(res.Title, res.MatchedIndexes)
		if i == f.cursor {
			line = styles.AccentStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if f.input.Value() == "" {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d entries", f.svc.Count())))
		b.WriteString("\n")
	} else if len(f.results) == 0 {
		b.WriteString(styles.DimStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	return b.String()
}

// highlightMatches emphasizes the characters the fuzzy matcher hit.
func highlightMatches(title string, matched []int) string {
	hits := matchedRunes(title, matched)
	if len(hits) == 0 {
		return title
	}

	var b strings.Builder
	for i, r := range []rune(title) {
		if hits[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteString(string(r))
		}
	}
	return b.String()
}

// matchedRunes converts the matcher's byte offsets into rune positions.
// Offsets that fall inside a multi-byte rune are dropped.
func matchedRunes(title string, matched []int) map[int]bool {
	if len(matched) == 0 {
		return nil
	}

	bytes := make(map[int]bool, len(matched))
	for _, idx := range matched {
		bytes[idx] = true
	}

	hits := make(map[int]bool, len(matched))
	pos := 0
	for byteIdx := range title {
		if bytes[byteIdx] {
			hits[pos] = true
		}
		pos++
	}
	return hits
}
