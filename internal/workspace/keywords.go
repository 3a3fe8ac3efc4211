package workspace

import (
	"strings"

	"resumelens/internal/types"
)

// MatchStatus describes how well the resume covers a required skill
type MatchStatus int

const (
	MatchMissing MatchStatus = iota
	MatchPartial
	MatchStrong
)

func (s MatchStatus) String() string {
	switch s {
	case MatchStrong:
		return "matched"
	case MatchPartial:
		return "partial"
	default:
		return "missing"
	}
}

// Keyword is a required skill from the job description annotated with its
// match status against the resume.
type Keyword struct {
	Text   string
	Status MatchStatus
}

// Matched reports whether the resume covers the keyword at all
func (k Keyword) Matched() bool {
	return k.Status != MatchMissing
}

// ExtractKeywords derives the job description keyword list from the skill
// gap: strong matches are fully covered, weak matches partially, and skills
// in neither set are missing. Order follows the job description's required
// skills, with case-insensitive duplicates dropped.
func ExtractKeywords(jd types.JobDescription, gap types.SkillGap) []Keyword {
	strong := make(map[string]bool, len(gap.StrongMatches))
	for _, s := range gap.StrongMatches {
		strong[strings.ToLower(s)] = true
	}
	weak := make(map[string]bool, len(gap.WeakMatches))
	for _, s := range gap.WeakMatches {
		weak[strings.ToLower(s)] = true
	}

	seen := make(map[string]bool, len(jd.RequiredSkills))
	keywords := make([]Keyword, 0, len(jd.RequiredSkills))
	for _, skill := range jd.RequiredSkills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		status := MatchMissing
		switch {
		case strong[key]:
			status = MatchStrong
		case weak[key]:
			status = MatchPartial
		}
		keywords = append(keywords, Keyword{Text: skill, Status: status})
	}
	return keywords
}
