package workspace

import (
	"fmt"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Tab identifies one of the analysis views
type Tab string

const (
	TabOverview Tab = "overview"
	TabSkillGap Tab = "skillgap"
	TabRewrite  Tab = "rewrite"
	TabATS      Tab = "ats"
	TabExplain  Tab = "explain"
)

// Tabs lists all tabs in display order
var Tabs = []Tab{TabOverview, TabSkillGap, TabRewrite, TabATS, TabExplain}

// ParseTab resolves a user-supplied tab name
func ParseTab(name string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == name {
			return t, nil
		}
	}
	return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("Unknown tab: %s", name), nil)
}

// Section identifies a collapsible region of the resume viewer
type Section string

const (
	SectionRaw        Section = "raw"
	SectionSkills     Section = "skills"
	SectionExperience Section = "experience"
)

// Sections lists the resume viewer sections in display order
var Sections = []Section{SectionRaw, SectionSkills, SectionExperience}

// ParseSection resolves a user-supplied section name
func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("Unknown resume section: %s", name), nil)
}

// Decision is the state of a rewrite suggestion. Suggestions start undecided
// and may be accepted or rejected exactly once; a decision is final.
type Decision int

const (
	DecisionUnset Decision = iota
	DecisionAccepted
	DecisionRejected
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Suggestion pairs a rewritten bullet with the user's decision on it
type Suggestion struct {
	Text     string
	Decision Decision
}

// Workspace is the interactive view model over one immutable analysis
// result. It owns all per-view state: the active tab, which resume sections
// are expanded, and decisions on rewrite suggestions. Not safe for
// concurrent use.
type Workspace struct {
	result      *types.FullAnalysisResult
	activeTab   Tab
	expanded    map[Section]bool
	suggestions []Suggestion
	keywords    []Keyword
}

// New creates a workspace over an analysis result. All resume sections
// start expanded and the overview tab is active.
func New(result *types.FullAnalysisResult) (*Workspace, error) {
	if result == nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest,
			"Workspace requires an analysis result", nil)
	}

	suggestions := make([]Suggestion, len(result.AIInsights.RewrittenBullets))
	for i, text := range result.AIInsights.RewrittenBullets {
		suggestions[i] = Suggestion{Text: text}
	}

	expanded := make(map[Section]bool, len(Sections))
	for _, s := range Sections {
		expanded[s] = true
	}

	return &Workspace{
		result:      result,
		activeTab:   TabOverview,
		expanded:    expanded,
		suggestions: suggestions,
		keywords:    ExtractKeywords(result.Computation.JDData, result.Computation.SkillGap),
	}, nil
}

// Result returns the underlying analysis result
func (w *Workspace) Result() *types.FullAnalysisResult {
	return w.result
}

// ActiveTab returns the currently selected tab
func (w *Workspace) ActiveTab() Tab {
	return w.activeTab
}

// SelectTab switches the active analysis view
func (w *Workspace) SelectTab(t Tab) error {
	if _, err := ParseTab(string(t)); err != nil {
		return err
	}
	w.activeTab = t
	return nil
}

// IsExpanded reports whether a resume section is expanded
func (w *Workspace) IsExpanded(s Section) bool {
	return w.expanded[s]
}

// ToggleSection flips a resume section between expanded and collapsed,
// returning the new state.
func (w *Workspace) ToggleSection(s Section) (bool, error) {
	if _, err := ParseSection(string(s)); err != nil {
		return false, err
	}
	w.expanded[s] = !w.expanded[s]
	return w.expanded[s], nil
}

// Suggestions returns a copy of the rewrite suggestions with their decisions
func (w *Workspace) Suggestions() []Suggestion {
	out := make([]Suggestion, len(w.suggestions))
	copy(out, w.suggestions)
	return out
}

// Accept marks the suggestion at index as accepted
func (w *Workspace) Accept(index int) error {
	return w.decide(index, DecisionAccepted)
}

// Reject marks the suggestion at index as rejected
func (w *Workspace) Reject(index int) error {
	return w.decide(index, DecisionRejected)
}

func (w *Workspace) decide(index int, d Decision) error {
	if index < 0 || index >= len(w.suggestions) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("No rewrite suggestion at index %d", index), nil)
	}
	if w.suggestions[index].Decision != DecisionUnset {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Suggestion %d is already %s", index, w.suggestions[index].Decision), nil)
	}
	w.suggestions[index].Decision = d
	return nil
}

// DecidedCounts returns how many suggestions have been accepted and rejected
func (w *Workspace) DecidedCounts() (accepted, rejected int) {
	for _, s := range w.suggestions {
		switch s.Decision {
		case DecisionAccepted:
			accepted++
		case DecisionRejected:
			rejected++
		}
	}
	return accepted, rejected
}

// Keywords returns the job description keywords with their match status
func (w *Workspace) Keywords() []Keyword {
	out := make([]Keyword, len(w.keywords))
	copy(out, w.keywords)
	return out
}
