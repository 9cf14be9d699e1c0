package lint

import (
	"sort"
	"strings"
)

// Tag classifies a rule for filtering and reporting.
type Tag uint8

const (
	TagCompleteness Tag = iota
	TagCorrectness
	TagPortability
	TagClarity
	TagSpacing
	TagStyle
	tagCount
)

func (t Tag) String() string {
	switch t {
	case TagCompleteness:
		return "completeness"
	case TagCorrectness:
		return "correctness"
	case TagPortability:
		return "portability"
	case TagClarity:
		return "clarity"
	case TagSpacing:
		return "spacing"
	case TagStyle:
		return "style"
	}
	return "unknown"
}

// ParseTag resolves a tag name, as used in configuration files.
func ParseTag(name string) (Tag, bool) {
	for t := Tag(0); t < tagCount; t++ {
		if t.String() == strings.ToLower(name) {
			return t, true
		}
	}
	return 0, false
}

// TagSet is an unordered set of tags. The zero value is empty.
type TagSet uint32

// NewTagSet builds a set from the given tags.
func NewTagSet(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s |= 1 << t
	}
	return s
}

// Contains reports whether t is in the set.
func (s TagSet) Contains(t Tag) bool {
	return s&(1<<t) != 0
}

// Intersects reports whether the sets share at least one tag.
func (s TagSet) Intersects(other TagSet) bool {
	return s&other != 0
}

// Union returns the combined set.
func (s TagSet) Union(other TagSet) TagSet {
	return s | other
}

func (s TagSet) String() string {
	names := make([]string, 0, 4)
	for t := Tag(0); t < tagCount; t++ {
		if s.Contains(t) {
			names = append(names, t.String())
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
