package browse

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"nordify/pkg/types"
)

type entrySource []types.DirectoryEntry

func (s entrySource) String(i int) string { return s[i].Name }
func (s entrySource) Len() int            { return len(s) }

// Filter narrows entries to those fuzzily matching pattern. Matches keep
// their listing order and their original ordinals, so a click on a filtered
// row still addresses the full listing. An empty pattern returns entries.
func Filter(entries []types.DirectoryEntry, pattern string) []types.DirectoryEntry {
	if pattern == "" {
		return entries
	}

	matches := fuzzy.FindFrom(pattern, entrySource(entries))
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })

	out := make([]types.DirectoryEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}
