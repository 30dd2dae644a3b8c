// Package dedup decides whether an imported draft already exists in a book's
// stored highlights. The decision is a pure function of the draft and the
// existing set; all side effects (creating highlights, applying enrichment
// patches) belong to the caller.
package dedup

import (
	"sort"
	"strings"
	"time"

	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/importers"
)

type Decision string

const (
	DecisionNew                 Decision = "new"
	DecisionDuplicate           Decision = "duplicate"
	DecisionDuplicateWithUpdate Decision = "duplicate_with_update"
)

// Result is the outcome of matching one draft against a book's highlights.
// Existing is the matched highlight for the two duplicate decisions and nil
// for DecisionNew.
type Result struct {
	Decision Decision
	Existing *entities.Highlight
	Patch    Patch
}

// Patch lists stored fields a duplicate-with-update should fill. Only
// absent fields are ever filled; populated fields are never overwritten and
// the highlight's review state is untouched.
type Patch struct {
	LocationType  *entities.LocationType
	LocationValue *int
	HighlightedAt *time.Time
	Note          *string
	Color         *string
	Section       *string
	RawTags       *string
	SortOrder     *int
}

// IsZero reports whether the patch fills nothing.
func (p Patch) IsZero() bool {
	return p.LocationType == nil &&
		p.HighlightedAt == nil &&
		p.Note == nil &&
		p.Color == nil &&
		p.Section == nil &&
		p.RawTags == nil &&
		p.SortOrder == nil
}

// Fields returns the patch as column/value pairs for a store update.
func (p Patch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.LocationType != nil {
		fields["location_type"] = *p.LocationType
		fields["location_value"] = *p.LocationValue
	}
	if p.HighlightedAt != nil {
		fields["highlighted_at"] = *p.HighlightedAt
	}
	if p.Note != nil {
		fields["note"] = *p.Note
	}
	if p.Color != nil {
		fields["color"] = *p.Color
	}
	if p.Section != nil {
		fields["section"] = *p.Section
	}
	if p.RawTags != nil {
		fields["raw_tags"] = *p.RawTags
	}
	if p.SortOrder != nil {
		fields["sort_order"] = *p.SortOrder
	}
	return fields
}

// NormalizeText trims the ends and collapses internal whitespace runs to
// single spaces. Case is preserved: "Hello" and "hello" are different
// highlights.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Decide matches a draft against the existing highlights of the same book.
//
// A draft duplicates a stored highlight when their normalized texts are
// identical and their locations do not conflict: equal, or absent on at
// least one side. Two highlights with the same text at different locations
// are distinct. When several stored highlights qualify, an exact location
// match wins, then the lowest ID, so outcomes are deterministic.
func Decide(draft importers.Draft, existing []entities.Highlight) Result {
	match := findMatch(draft, existing)
	if match == nil {
		return Result{Decision: DecisionNew}
	}

	patch := buildPatch(draft, *match)
	if patch.IsZero() {
		return Result{Decision: DecisionDuplicate, Existing: match}
	}
	return Result{Decision: DecisionDuplicateWithUpdate, Existing: match, Patch: patch}
}

func findMatch(draft importers.Draft, existing []entities.Highlight) *entities.Highlight {
	text := NormalizeText(draft.Text)

	candidates := make([]*entities.Highlight, 0, len(existing))
	for i := range existing {
		if NormalizeText(existing[i].Text) == text {
			candidates = append(candidates, &existing[i])
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})

	// Exact location matches (including both-absent) take precedence over
	// matches where only one side carries a location.
	for _, c := range candidates {
		if locationsEqual(draft, *c) {
			return c
		}
	}
	for _, c := range candidates {
		if locationsCompatible(draft, *c) {
			return c
		}
	}
	return nil
}

func locationsEqual(draft importers.Draft, h entities.Highlight) bool {
	if !draft.HasLocation() && !h.HasLocation() {
		return true
	}
	return draft.LocationType == h.LocationType && draft.LocationValue == h.LocationValue
}

func locationsCompatible(draft importers.Draft, h entities.Highlight) bool {
	if !draft.HasLocation() || !h.HasLocation() {
		return true
	}
	return locationsEqual(draft, h)
}

func buildPatch(draft importers.Draft, stored entities.Highlight) Patch {
	var patch Patch

	if draft.HasLocation() && !stored.HasLocation() {
		locType := draft.LocationType
		locValue := draft.LocationValue
		patch.LocationType = &locType
		patch.LocationValue = &locValue
	}
	if draft.HighlightedAt != nil && stored.HighlightedAt == nil {
		at := *draft.HighlightedAt
		patch.HighlightedAt = &at
	}
	if draft.Note != "" && stored.Note == "" {
		note := draft.Note
		patch.Note = &note
	}
	if draft.Color != "" && stored.Color == "" {
		color := draft.Color
		patch.Color = &color
	}
	if draft.Section != "" && stored.Section == "" {
		section := draft.Section
		patch.Section = &section
	}
	if draft.RawTags != "" && stored.RawTags == "" {
		tags := draft.RawTags
		patch.RawTags = &tags
	}
	if draft.SortOrder != 0 && stored.SortOrder == 0 {
		order := draft.SortOrder
		patch.SortOrder = &order
	}

	return patch
}
