package cli

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"resumelens/internal/errors"
	"resumelens/internal/formatters"
	"resumelens/internal/workspace"

	"github.com/spf13/cobra"
)

// runWorkspaceShell runs a line-oriented shell over the workspace until the
// user quits or input ends.
func runWorkspaceShell(cmd *cobra.Command, ws *workspace.Workspace) error {
	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Entering workspace. Type 'help' for commands, 'quit' to leave.")
	renderTab(out, ws)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "[%s]> ", ws.ActiveTab())
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]

		switch command {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Leaving workspace.")
			return nil
		case "help", "h":
			printShellHelp(out)
		case "tab", "t":
			handleTab(out, ws, args)
		case "show", "s":
			renderTab(out, ws)
		case "resume", "r":
			renderResume(out, ws)
		case "toggle":
			handleToggle(out, ws, args)
		case "jd":
			renderJD(out, ws)
		case "keywords", "k":
			renderKeywords(out, ws)
		case "accept", "a":
			handleDecision(out, ws, args, ws.Accept)
		case "reject", "x":
			handleDecision(out, ws, args, ws.Reject)
		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help' for the command list.\n", command)
		}
	}

	return scanner.Err()
}

func printShellHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  tab <name>       switch tab (overview, skillgap, rewrite, ats, explain)
  show             render the active tab
  resume           show the resume viewer
  toggle <section> expand/collapse a resume section (raw, skills, experience)
  jd               show the job description
  keywords         show job description keywords and match status
  accept <n>       accept rewrite suggestion n
  reject <n>       reject rewrite suggestion n
  help             show this help
  quit             leave the workspace
`)
}

func handleTab(out io.Writer, ws *workspace.Workspace, args []string) {
	if len(args) != 1 {
		fmt.Fprintf(out, "Usage: tab <%s>\n", tabNames())
		return
	}
	tab, err := workspace.ParseTab(args[0])
	if err != nil {
		fmt.Fprintf(out, "%s. Available tabs: %s\n", errorMessage(err), tabNames())
		return
	}
	if err := ws.SelectTab(tab); err != nil {
		fmt.Fprintln(out, errorMessage(err))
		return
	}
	renderTab(out, ws)
}

func handleToggle(out io.Writer, ws *workspace.Workspace, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: toggle <raw|skills|experience>")
		return
	}
	section, err := workspace.ParseSection(args[0])
	if err != nil {
		fmt.Fprintln(out, errorMessage(err))
		return
	}
	expanded, err := ws.ToggleSection(section)
	if err != nil {
		fmt.Fprintln(out, errorMessage(err))
		return
	}
	state := "collapsed"
	if expanded {
		state = "expanded"
	}
	fmt.Fprintf(out, "Section %s is now %s.\n", section, state)
}

func handleDecision(out io.Writer, ws *workspace.Workspace, args []string, decide func(int) error) {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: accept|reject <suggestion-number>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(out, "Not a suggestion number: %s\n", args[0])
		return
	}
	// Shell numbering is 1-based, matching the rendered list.
	if err := decide(n - 1); err != nil {
		fmt.Fprintln(out, errorMessage(err))
		return
	}
	accepted, rejected := ws.DecidedCounts()
	fmt.Fprintf(out, "Done. %d accepted, %d rejected.\n", accepted, rejected)
}

func renderTab(out io.Writer, ws *workspace.Workspace) {
	result := ws.Result()
	switch ws.ActiveTab() {
	case workspace.TabOverview:
		scores := result.Computation.Scores
		fmt.Fprintf(out, "\nOverall Match: %s\n", formatters.Percent(scores.OverallScore))
		fmt.Fprintf(out, "Skills: %s   Experience: %s   Projects: %s\n\n",
			formatters.Percent(scores.SkillsScore),
			formatters.Percent(scores.ExperienceScore),
			formatters.Percent(scores.ProjectScore))

	case workspace.TabSkillGap:
		gap := result.Computation.SkillGap
		fmt.Fprintln(out)
		renderSkillLine(out, "Strong ", gap.StrongMatches)
		renderSkillLine(out, "Weak   ", gap.WeakMatches)
		renderSkillLine(out, "Missing", gap.MissingSkills)
		fmt.Fprintln(out)

	case workspace.TabRewrite:
		suggestions := ws.Suggestions()
		fmt.Fprintln(out)
		if len(suggestions) == 0 {
			fmt.Fprintln(out, "No rewrite suggestions.")
		}
		for i, s := range suggestions {
			fmt.Fprintf(out, "%d. [%s] %s\n", i+1, s.Decision, s.Text)
		}
		fmt.Fprintln(out)

	case workspace.TabATS:
		fmt.Fprintln(out)
		if len(result.AIInsights.ATSSuggestions) == 0 {
			fmt.Fprintln(out, "No ATS suggestions.")
		}
		for _, s := range result.AIInsights.ATSSuggestions {
			fmt.Fprintf(out, "- %s\n", s)
		}
		fmt.Fprintln(out)

	case workspace.TabExplain:
		paragraphs := formatters.Paragraphs(result.AIInsights.SummaryExplanation)
		fmt.Fprintln(out)
		if len(paragraphs) == 0 {
			fmt.Fprintln(out, "No explanation provided.")
		}
		for _, p := range paragraphs {
			fmt.Fprintln(out, p)
			fmt.Fprintln(out)
		}
	}
}

func renderResume(out io.Writer, ws *workspace.Workspace) {
	resume := ws.Result().Computation.ResumeData

	fmt.Fprintln(out)
	renderSection(out, ws, workspace.SectionRaw, "Resume Text", func() {
		fmt.Fprintln(out, resume.RawText)
	})
	renderSection(out, ws, workspace.SectionSkills, "Skills", func() {
		for _, s := range resume.Skills {
			fmt.Fprintf(out, "- %s\n", s)
		}
	})
	renderSection(out, ws, workspace.SectionExperience, "Experience", func() {
		for _, e := range resume.Experience {
			fmt.Fprintf(out, "- %s\n", e)
		}
	})
	fmt.Fprintln(out)
}

func renderSection(out io.Writer, ws *workspace.Workspace, section workspace.Section, title string, body func()) {
	if !ws.IsExpanded(section) {
		fmt.Fprintf(out, "## %s (collapsed)\n", title)
		return
	}
	fmt.Fprintf(out, "## %s\n", title)
	body()
}

func renderJD(out io.Writer, ws *workspace.Workspace) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ws.Result().Computation.JDData.RawText)
	fmt.Fprintln(out)
}

func renderKeywords(out io.Writer, ws *workspace.Workspace) {
	keywords := ws.Keywords()
	fmt.Fprintln(out)
	if len(keywords) == 0 {
		fmt.Fprintln(out, "No keywords extracted.")
	}
	for _, kw := range keywords {
		fmt.Fprintf(out, "%-8s %s\n", kw.Status, kw.Text)
	}
	fmt.Fprintln(out)
}

func renderSkillLine(out io.Writer, label string, skills []string) {
	if len(skills) == 0 {
		fmt.Fprintf(out, "%s: (none)\n", label)
		return
	}
	fmt.Fprintf(out, "%s: %s\n", label, strings.Join(skills, ", "))
}

func tabNames() string {
	names := make([]string, len(workspace.Tabs))
	for i, t := range workspace.Tabs {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// errorMessage extracts the human-readable part of an application error
func errorMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
