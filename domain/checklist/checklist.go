// Package checklist provides the checklist document model: packages,
// sections, and items with completion tracking.
package checklist

import "strings"

// Item is a single actionable checklist entry.
type Item struct {
	Identifier         string            `json:"identifier"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	SubSteps           []string          `json:"sub_steps,omitempty"`
	AcceptanceCriteria []string          `json:"acceptance_criteria,omitempty"`
	Prerequisites      []string          `json:"prerequisites,omitempty"`
	Done               bool              `json:"done"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := i
	out.SubSteps = cloneStrings(i.SubSteps)
	out.AcceptanceCriteria = cloneStrings(i.AcceptanceCriteria)
	out.Prerequisites = cloneStrings(i.Prerequisites)
	if i.Metadata != nil {
		out.Metadata = make(map[string]string, len(i.Metadata))
		for k, v := range i.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Section is a logical grouping of checklist items.
type Section struct {
	Name      string `json:"name"`
	Objective string `json:"objective"`
	Items     []Item `json:"items"`
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	out.Items = make([]Item, len(s.Items))
	for i, item := range s.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// Package holds one revision of the checklist plus commentary.
type Package struct {
	Sections []Section `json:"sections"`
	Notes    []string  `json:"notes,omitempty"`
}

// New creates a package from the given sections.
func New(sections []Section) *Package {
	return &Package{Sections: sections}
}

// Clone returns a deep copy of the package.
func (p *Package) Clone() *Package {
	if p == nil {
		return nil
	}
	out := &Package{
		Sections: make([]Section, len(p.Sections)),
		Notes:    cloneStrings(p.Notes),
	}
	for i, s := range p.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// CloneSections returns a deep copy of a section slice.
func CloneSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = s.Clone()
	}
	return out
}

// ItemCount returns the total number of items across all sections.
func (p *Package) ItemCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, s := range p.Sections {
		n += len(s.Items)
	}
	return n
}

// DoneCount returns the number of completed items.
func (p *Package) DoneCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, s := range p.Sections {
		for _, item := range s.Items {
			if item.Done {
				n++
			}
		}
	}
	return n
}

// AllDone returns true if the package has items and every item is complete.
func (p *Package) AllDone() bool {
	return p.ItemCount() > 0 && p.DoneCount() == p.ItemCount()
}

// Item returns a pointer to the item with the given identifier, or nil.
// Identifier matching is exact first, then case-insensitive.
func (p *Package) Item(identifier string) *Item {
	if p == nil {
		return nil
	}
	for si := range p.Sections {
		for ii := range p.Sections[si].Items {
			if p.Sections[si].Items[ii].Identifier == identifier {
				return &p.Sections[si].Items[ii]
			}
		}
	}
	for si := range p.Sections {
		for ii := range p.Sections[si].Items {
			if strings.EqualFold(p.Sections[si].Items[ii].Identifier, identifier) {
				return &p.Sections[si].Items[ii]
			}
		}
	}
	return nil
}

// ItemByOrdinal returns a pointer to the n-th item (1-based) in section
// order, or nil when out of range.
func (p *Package) ItemByOrdinal(n int) *Item {
	if p == nil || n < 1 {
		return nil
	}
	seen := 0
	for si := range p.Sections {
		for ii := range p.Sections[si].Items {
			seen++
			if seen == n {
				return &p.Sections[si].Items[ii]
			}
		}
	}
	return nil
}

// MarkDone flips the completion flag of the item matched by identifier
// or ordinal and reports whether a match was found. Identifier takes
// precedence when both are provided.
func (p *Package) MarkDone(identifier string, ordinal int) (Item, bool) {
	var target *Item
	if identifier != "" {
		target = p.Item(identifier)
	}
	if target == nil && ordinal > 0 {
		target = p.ItemByOrdinal(ordinal)
	}
	if target == nil {
		return Item{}, false
	}
	target.Done = true
	return target.Clone(), true
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
