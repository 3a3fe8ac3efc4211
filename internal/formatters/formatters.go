package formatters

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"resumelens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "FullAnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "FullAnalysisResult", &AnalysisMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

func getDataType(data any) string {
	switch data.(type) {
	case types.FullAnalysisResult, *types.FullAnalysisResult:
		return "FullAnalysisResult"
	default:
		return "any"
	}
}

func asResult(data any) (*types.FullAnalysisResult, error) {
	switch v := data.(type) {
	case types.FullAnalysisResult:
		return &v, nil
	case *types.FullAnalysisResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected FullAnalysisResult, got %T", data)
	}
}

// Percent renders a score as a rounded whole percentage
func Percent(score float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(score)))
}

// Paragraphs splits a multi-paragraph explanation on blank lines
func Paragraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := asResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	scores := result.Computation.Scores
	gap := result.Computation.SkillGap
	insights := result.AIInsights

	output.WriteString("=== MATCH OVERVIEW ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Match: %s\n", Percent(scores.OverallScore)))
	output.WriteString(fmt.Sprintf("Skills: %s   Experience: %s   Projects: %s\n\n",
		Percent(scores.SkillsScore), Percent(scores.ExperienceScore), Percent(scores.ProjectScore)))

	output.WriteString("=== SKILL GAP ===\n\n")
	writeSkillList(&output, "Strong Matches", gap.StrongMatches)
	writeSkillList(&output, "Weak Matches", gap.WeakMatches)
	writeSkillList(&output, "Missing Skills", gap.MissingSkills)

	output.WriteString("=== REWRITE SUGGESTIONS ===\n\n")
	if len(insights.RewrittenBullets) > 0 {
		for i, bullet := range insights.RewrittenBullets {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, bullet))
		}
		output.WriteString("\n")
	} else {
		output.WriteString("No rewrite suggestions.\n\n")
	}

	output.WriteString("=== ATS SUGGESTIONS ===\n\n")
	if len(insights.ATSSuggestions) > 0 {
		for _, suggestion := range insights.ATSSuggestions {
			output.WriteString(fmt.Sprintf("- %s\n", suggestion))
		}
		output.WriteString("\n")
	} else {
		output.WriteString("No ATS suggestions.\n\n")
	}

	output.WriteString("=== EXPLANATION ===\n\n")
	paragraphs := Paragraphs(insights.SummaryExplanation)
	if len(paragraphs) > 0 {
		for _, p := range paragraphs {
			output.WriteString(p)
			output.WriteString("\n\n")
		}
	} else {
		output.WriteString("No explanation provided.\n\n")
	}

	return strings.TrimRight(output.String(), "\n") + "\n", nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "FullAnalysisResult"
}

func writeSkillList(output *strings.Builder, title string, skills []string) {
	output.WriteString(title + ":\n")
	if len(skills) == 0 {
		output.WriteString("  (none)\n\n")
		return
	}
	for _, skill := range skills {
		output.WriteString(fmt.Sprintf("- %s\n", skill))
	}
	output.WriteString("\n")
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := asResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	scores := result.Computation.Scores
	gap := result.Computation.SkillGap
	insights := result.AIInsights

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Match:** %s\n\n", Percent(scores.OverallScore)))
	output.WriteString(fmt.Sprintf("| Skills | Experience | Projects |\n|---|---|---|\n| %s | %s | %s |\n\n",
		Percent(scores.SkillsScore), Percent(scores.ExperienceScore), Percent(scores.ProjectScore)))

	output.WriteString("## Skill Gap\n\n")
	writeSkillChips(&output, "Strong Matches", gap.StrongMatches)
	writeSkillChips(&output, "Weak Matches", gap.WeakMatches)
	writeSkillChips(&output, "Missing Skills", gap.MissingSkills)

	output.WriteString("## Rewrite Suggestions\n\n")
	if len(insights.RewrittenBullets) > 0 {
		for i, bullet := range insights.RewrittenBullets {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, bullet))
		}
		output.WriteString("\n")
	} else {
		output.WriteString("No rewrite suggestions.\n\n")
	}

	output.WriteString("## ATS Suggestions\n\n")
	if len(insights.ATSSuggestions) > 0 {
		for _, suggestion := range insights.ATSSuggestions {
			output.WriteString(fmt.Sprintf("- %s\n", suggestion))
		}
		output.WriteString("\n")
	} else {
		output.WriteString("No ATS suggestions.\n\n")
	}

	output.WriteString("## Explanation\n\n")
	paragraphs := Paragraphs(insights.SummaryExplanation)
	if len(paragraphs) > 0 {
		for _, p := range paragraphs {
			output.WriteString(p)
			output.WriteString("\n\n")
		}
	} else {
		output.WriteString("No explanation provided.\n\n")
	}

	return strings.TrimRight(output.String(), "\n") + "\n", nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "FullAnalysisResult"
}

func writeSkillChips(output *strings.Builder, title string, skills []string) {
	output.WriteString(fmt.Sprintf("**%s:** ", title))
	if len(skills) == 0 {
		output.WriteString("_none_\n\n")
		return
	}
	chips := make([]string, len(skills))
	for i, skill := range skills {
		chips[i] = "`" + skill + "`"
	}
	output.WriteString(strings.Join(chips, " "))
	output.WriteString("\n\n")
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
