package types

// AnalysisRequest is the pair of user inputs submitted for one analysis.
// It is created on submit and consumed exactly once by the analysis client.
type AnalysisRequest struct {
	FileName       string
	FileData       []byte
	JobDescription string
}

// ResumeContent is the parsed resume as returned by the analysis service
type ResumeContent struct {
	RawText    string   `json:"raw_text"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Projects   []string `json:"projects"`
}

// JobDescription is the parsed job description as returned by the analysis service
type JobDescription struct {
	RawText        string   `json:"raw_text"`
	RequiredSkills []string `json:"required_skills"`
}

// SkillGap partitions the job's required skills relative to the resume.
// Slice order is display order and is preserved from the response.
type SkillGap struct {
	StrongMatches []string `json:"strong_matches"`
	WeakMatches   []string `json:"weak_matches"`
	MissingSkills []string `json:"missing_skills"`
}

// ScoringResult holds the match scores, each in [0,100].
// No cross-field consistency is enforced client-side; the server is trusted.
type ScoringResult struct {
	OverallScore    float64 `json:"overall_score"`
	SkillsScore     float64 `json:"skills_score"`
	ExperienceScore float64 `json:"experience_score"`
	ProjectScore    float64 `json:"project_score"`
}

// AnalysisComputations groups the deterministic computation outputs
type AnalysisComputations struct {
	Scores     ScoringResult  `json:"scores"`
	SkillGap   SkillGap       `json:"skill_gap"`
	ResumeData ResumeContent  `json:"resume_data"`
	JDData     JobDescription `json:"jd_data"`
}

// AIInsights holds the AI-generated portion of the analysis.
// SummaryExplanation may contain multiple paragraphs separated by blank lines.
type AIInsights struct {
	SummaryExplanation string   `json:"summary_explanation"`
	ATSSuggestions     []string `json:"ats_suggestions"`
	RewrittenBullets   []string `json:"rewritten_bullets"`
}

// FullAnalysisResult is the complete analysis for one resume/job-description
// pair. It is created once per successful analysis and never mutated.
type FullAnalysisResult struct {
	Computation AnalysisComputations `json:"computation"`
	AIInsights  AIInsights           `json:"ai_insights"`
}
