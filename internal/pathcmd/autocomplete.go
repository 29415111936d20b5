package pathcmd

import (
	"sort"
	"strings"

	"todobar-cli/internal/store"
)

// Suggestion is one autocomplete candidate: a live child of the resolved
// path, plus the input that selecting it produces.
type Suggestion struct {
	ID   string
	Name string
	// Path is the full input after accepting this suggestion: the resolved
	// prefix followed by the encoded name.
	Path string
}

// Autocomplete tracks the suggestion list for the current path input and the
// highlighted entry.
type Autocomplete struct {
	Suggestions []Suggestion
	Index       int
}

func NewAutocomplete() *Autocomplete {
	return &Autocomplete{Index: -1}
}

// Update recomputes suggestions for input. Complete segments must resolve
// exactly (first match in display order); if any fails the list is empty. A
// trailing slash offers every child of the resolved node; otherwise children
// are filtered by case-insensitive substring match on the partial segment.
func (a *Autocomplete) Update(db *store.DB, input string) {
	a.Suggestions = nil
	a.Index = -1

	r := Tokenize(strings.TrimSpace(input))
	parentID := ""
	var resolved []string
	for _, name := range r.Segments {
		if name == "" {
			continue
		}
		n, ok := FindChildByName(db, parentID, name)
		if !ok {
			return
		}
		parentID = n.ID
		resolved = append(resolved, name)
	}

	var prefix strings.Builder
	prefix.WriteByte('/')
	for _, name := range resolved {
		prefix.WriteString(EncodeSegment(name))
		prefix.WriteByte('/')
	}

	needle := strings.ToLower(strings.TrimSpace(r.Remainder))
	for _, c := range db.ChildrenOf(parentID, false) {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		a.Suggestions = append(a.Suggestions, Suggestion{
			ID:   c.ID,
			Name: c.Name,
			Path: prefix.String() + EncodeSegment(c.Name),
		})
	}
	sort.SliceStable(a.Suggestions, func(i, j int) bool {
		return strings.ToLower(a.Suggestions[i].Name) < strings.ToLower(a.Suggestions[j].Name)
	})
	if len(a.Suggestions) > 0 {
		a.Index = 0
	}
}

func (a *Autocomplete) HasSuggestions() bool {
	return len(a.Suggestions) > 0
}

// Current returns the highlighted suggestion.
func (a *Autocomplete) Current() (Suggestion, bool) {
	if a.Index < 0 || a.Index >= len(a.Suggestions) {
		return Suggestion{}, false
	}
	return a.Suggestions[a.Index], true
}

func (a *Autocomplete) SelectNext() {
	if len(a.Suggestions) == 0 {
		return
	}
	a.Index = (a.Index + 1) % len(a.Suggestions)
}

func (a *Autocomplete) SelectPrevious() {
	if len(a.Suggestions) == 0 {
		return
	}
	a.Index = (a.Index - 1 + len(a.Suggestions)) % len(a.Suggestions)
}

// Apply accepts the highlighted suggestion: it returns the suggestion's path
// and re-runs Update against that exact text, so quoting state stays correct.
func (a *Autocomplete) Apply(db *store.DB) (string, bool) {
	cur, ok := a.Current()
	if !ok {
		return "", false
	}
	a.Update(db, cur.Path)
	return cur.Path, true
}

func (a *Autocomplete) Clear() {
	a.Suggestions = nil
	a.Index = -1
}
