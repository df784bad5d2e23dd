package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/application/usecase"
	"github.com/bnema/tabshell/internal/cli/styles"
)

var (
	historyJSON bool
	historyMax  int
	historyYes  bool

	contentMaxChars int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently visited pages",
	Long: `List the most recently visited pages, newest first.

Private tabs and internal pages are never recorded.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history and stored page text",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var historyContentCmd = &cobra.Command{
	Use:   "content <url>",
	Short: "Show the text stored for a visited page",
	Long: `Show the page text captured when the page finished loading.

The URL may be typed as in the address bar; "example.com/post" finds
https://example.com/post.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryContent,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyContentCmd)
	historyCmd.Flags().BoolVarP(&historyJSON, "json", "j", false, "output as JSON")
	historyCmd.Flags().IntVarP(&historyMax, "max", "n", 50, "maximum number of entries")
	historyContentCmd.Flags().IntVar(&contentMaxChars, "max-chars", 2000, "truncate the text (0 shows everything)")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "do not ask for confirmation")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if historyMax <= 0 {
		return fmt.Errorf("--max must be positive")
	}

	entries, err := a.History.GetRecent(a.Ctx(), historyMax, 0)
	if err != nil {
		return fmt.Errorf("get history: %w", err)
	}

	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	renderer := styles.NewHistoryRenderer(a.Theme)
	fmt.Fprint(cmd.OutOrStdout(), renderer.Render(entries, time.Now()))
	return nil
}

func runHistoryContent(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	uc := usecase.NewRecordHistoryUseCase(a.History)
	content, err := uc.PageContent(a.Ctx(), args[0])
	if err != nil {
		return err
	}
	renderer := styles.NewHistoryRenderer(a.Theme)
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderContent(content, time.Now(), contentMaxChars))
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewHistoryRenderer(a.Theme)

	if !historyYes {
		fmt.Fprint(cmd.OutOrStdout(), "Delete all history? [y/N] ")
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			return nil
		}
	}

	if err := a.History.DeleteAll(a.Ctx()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderCleared())
	return nil
}
