package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui"
)

var errNotTerminal = errors.New("pick needs an interactive terminal")

// isTerminal reports whether stdout is a terminal. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var pickCmd = &cobra.Command{
	Use:   "pick [filter-id]",
	Short: "Edit a filter's selection interactively",
	Long: `Open the interactive element picker for a saved filter.

Pages load as you scroll. Changes stay uncommitted until you press enter;
quitting saves the working selection either way.

Controls:
  ↑/k, ↓/j    - Move
  pgdn        - Page down
  space, x    - Toggle element
  o           - Only this element
  a, n, i     - All, none, invert
  /           - Search titles
  enter       - Commit
  r           - Revert
  ?           - Toggle help
  q           - Save and quit`,
	Args: cobra.ExactArgs(1),
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) (err error) {
	if filterService == nil {
		return errFiltersNotConfigured
	}
	if !isTerminal() {
		return errNotTerminal
	}

	picker, err := tui.NewPicker(commandContext(cmd), &tui.Ports{Filters: filterService}, args[0])
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("picker panic: %v", r)
		}
	}()

	p := tea.NewProgram(picker, tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
