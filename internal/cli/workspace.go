package cli

import (
	"encoding/json"
	"fmt"

	"resumelens/internal/common"
	"resumelens/internal/errors"
	"resumelens/internal/types"
	"resumelens/internal/workspace"

	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace <result-file>",
	Short: "Explore a saved analysis result interactively",
	Long: `Open the workspace shell over a previously saved analysis result.

The result file is the JSON produced by 'analyze --format json --output'.
Inside the shell you can switch between analysis tabs, expand and collapse
resume sections, review job description keywords, and accept or reject
rewrite suggestions. Type 'help' inside the shell for the command list.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkspace,
}

func runWorkspace(cmd *cobra.Command, args []string) error {
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	fileProcessor := common.NewFileProcessor(logger)
	raw, err := fileProcessor.ReadFileBytes(args[0])
	if err != nil {
		return err
	}

	var result types.FullAnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return errors.NewIOError(errors.ErrCodeMalformedResponse,
			fmt.Sprintf("Result file does not contain a valid analysis: %s", args[0]), err)
	}

	ws, err := workspace.New(&result)
	if err != nil {
		return err
	}

	logger.Info("Opened workspace from saved result", "file", args[0])
	return runWorkspaceShell(cmd, ws)
}
