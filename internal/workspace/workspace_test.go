package workspace

import (
	"bytes"
	"encoding/json"
	"testing"

	"resumelens/internal/types"
)

func sampleResult() *types.FullAnalysisResult {
	return &types.FullAnalysisResult{
		Computation: types.AnalysisComputations{
			Scores: types.ScoringResult{
				OverallScore:    82,
				SkillsScore:     90,
				ExperienceScore: 75,
				ProjectScore:    80,
			},
			SkillGap: types.SkillGap{
				StrongMatches: []string{"Go", "PostgreSQL"},
				WeakMatches:   []string{"Kubernetes"},
				MissingSkills: []string{"Terraform"},
			},
			ResumeData: types.ResumeContent{
				RawText:    "Seasoned backend engineer...",
				Skills:     []string{"Go", "PostgreSQL", "Kubernetes"},
				Experience: []string{"Backend engineer at Acme"},
			},
			JDData: types.JobDescription{
				RawText:        "We need a platform engineer...",
				RequiredSkills: []string{"Go", "Kubernetes", "Terraform", "go", "PostgreSQL"},
			},
		},
		AIInsights: types.AIInsights{
			SummaryExplanation: "Strong overall fit.\n\nSome gaps in infrastructure tooling.",
			ATSSuggestions:     []string{"Add a skills section"},
			RewrittenBullets:   []string{"Led migration to Go services", "Cut query latency by 40%"},
		},
	}
}

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w, err := New(sampleResult())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w
}

func TestNewRequiresResult(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestDefaults(t *testing.T) {
	w := newWorkspace(t)

	if got := w.ActiveTab(); got != TabOverview {
		t.Errorf("default tab = %v, want %v", got, TabOverview)
	}
	for _, s := range Sections {
		if !w.IsExpanded(s) {
			t.Errorf("section %s should start expanded", s)
		}
	}
}

func TestSelectTab(t *testing.T) {
	w := newWorkspace(t)

	if err := w.SelectTab(TabRewrite); err != nil {
		t.Fatalf("SelectTab() error = %v", err)
	}
	if got := w.ActiveTab(); got != TabRewrite {
		t.Errorf("active tab = %v, want %v", got, TabRewrite)
	}

	if err := w.SelectTab(Tab("nonsense")); err == nil {
		t.Error("expected error for unknown tab")
	}
	if got := w.ActiveTab(); got != TabRewrite {
		t.Errorf("failed select must not change tab, got %v", got)
	}
}

func TestToggleSection(t *testing.T) {
	w := newWorkspace(t)

	expanded, err := w.ToggleSection(SectionSkills)
	if err != nil {
		t.Fatalf("ToggleSection() error = %v", err)
	}
	if expanded {
		t.Error("first toggle should collapse the section")
	}

	expanded, err = w.ToggleSection(SectionSkills)
	if err != nil {
		t.Fatalf("ToggleSection() error = %v", err)
	}
	if !expanded {
		t.Error("second toggle should expand the section again")
	}

	if _, err := w.ToggleSection(Section("projects")); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestSuggestionDecisionIsFinal(t *testing.T) {
	w := newWorkspace(t)

	if err := w.Accept(0); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if err := w.Reject(0); err == nil {
		t.Error("re-deciding an accepted suggestion must fail")
	}
	if err := w.Accept(0); err == nil {
		t.Error("accepting twice must fail")
	}

	if err := w.Reject(1); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	got := w.Suggestions()
	if got[0].Decision != DecisionAccepted {
		t.Errorf("suggestion 0 = %v, want accepted", got[0].Decision)
	}
	if got[1].Decision != DecisionRejected {
		t.Errorf("suggestion 1 = %v, want rejected", got[1].Decision)
	}

	accepted, rejected := w.DecidedCounts()
	if accepted != 1 || rejected != 1 {
		t.Errorf("DecidedCounts() = (%d, %d), want (1, 1)", accepted, rejected)
	}
}

func TestDecideOutOfRange(t *testing.T) {
	w := newWorkspace(t)

	if err := w.Accept(-1); err == nil {
		t.Error("expected error for negative index")
	}
	if err := w.Accept(99); err == nil {
		t.Error("expected error for index past the end")
	}
}

func TestInteractionsNeverMutateResult(t *testing.T) {
	result := sampleResult()
	before, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshaling result: %v", err)
	}

	w, err := New(result)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, tab := range Tabs {
		if err := w.SelectTab(tab); err != nil {
			t.Fatalf("SelectTab(%v) error = %v", tab, err)
		}
	}
	for _, s := range Sections {
		if _, err := w.ToggleSection(s); err != nil {
			t.Fatalf("ToggleSection(%v) error = %v", s, err)
		}
	}
	if err := w.Accept(0); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if err := w.Reject(1); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	w.Suggestions()
	w.Keywords()

	after, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshaling result: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("interactions mutated the analysis result:\nbefore %s\nafter  %s", before, after)
	}
}

func TestExtractKeywords(t *testing.T) {
	result := sampleResult()
	keywords := ExtractKeywords(result.Computation.JDData, result.Computation.SkillGap)

	want := []Keyword{
		{Text: "Go", Status: MatchStrong},
		{Text: "Kubernetes", Status: MatchPartial},
		{Text: "Terraform", Status: MatchMissing},
		{Text: "PostgreSQL", Status: MatchStrong},
	}

	if len(keywords) != len(want) {
		t.Fatalf("got %d keywords, want %d (case-insensitive duplicates dropped)", len(keywords), len(want))
	}
	for i, kw := range keywords {
		if kw != want[i] {
			t.Errorf("keyword %d = %+v, want %+v", i, kw, want[i])
		}
	}

	if !keywords[1].Matched() {
		t.Error("partial matches still count as covered")
	}
	if keywords[2].Matched() {
		t.Error("missing skills must not count as covered")
	}
}

func TestExtractKeywordsEmptyJD(t *testing.T) {
	keywords := ExtractKeywords(types.JobDescription{}, types.SkillGap{})
	if len(keywords) != 0 {
		t.Errorf("expected no keywords, got %d", len(keywords))
	}
}
