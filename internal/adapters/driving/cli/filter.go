package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Manage saved attribute filters",
	Long: `Create saved filters over a display form and stage selections on them.

Selection edits change the working selection only. Use "commit" to make it
the committed selection that "export" returns, or "revert" to discard it.`,
}

var filterCreateCmd = &cobra.Command{
	Use:   "create [name] [display-form]",
	Short: "Create a filter selecting every element",
	Args:  cobra.ExactArgs(2),
	RunE:  runFilterCreate,
}

var filterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved filters",
	Args:  cobra.NoArgs,
	RunE:  runFilterList,
}

var filterShowCmd = &cobra.Command{
	Use:   "show [filter-id]",
	Short: "Show a filter's selections",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilterShow,
}

var filterDeleteCmd = &cobra.Command{
	Use:   "delete [filter-id]",
	Short: "Delete a filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilterDelete,
}

var filterCommitCmd = &cobra.Command{
	Use:   "commit [filter-id]",
	Short: "Commit the working selection",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilterCommit,
}

var filterRevertCmd = &cobra.Command{
	Use:   "revert [filter-id]",
	Short: "Discard working selection changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilterRevert,
}

var filterExportCmd = &cobra.Command{
	Use:   "export [filter-id]",
	Short: "Print the committed selection as an attribute filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilterExport,
}

var (
	filterBy     string
	filterSingle bool
	filterJSON   bool
)

func init() {
	filterCreateCmd.Flags().StringVar(&filterBy, "by", "uri", "Key kind: uri or value")
	filterCreateCmd.Flags().BoolVar(&filterSingle, "single", false, "Allow at most one selected element")
	filterShowCmd.Flags().BoolVar(&filterJSON, "json", false, "Output as JSON")

	filterCmd.AddCommand(filterCreateCmd)
	filterCmd.AddCommand(filterListCmd)
	filterCmd.AddCommand(filterShowCmd)
	filterCmd.AddCommand(filterDeleteCmd)
	for _, c := range selectionCommands() {
		filterCmd.AddCommand(c)
	}
	filterCmd.AddCommand(filterCommitCmd)
	filterCmd.AddCommand(filterRevertCmd)
	filterCmd.AddCommand(filterExportCmd)
	rootCmd.AddCommand(filterCmd)
}

// selectionCommands builds one subcommand per selection edit.
func selectionCommands() []*cobra.Command {
	specs := []struct {
		kind  domain.SelectionOpKind
		use   string
		short string
		args  cobra.PositionalArgs
	}{
		{domain.OpAdd, "add [filter-id] [key...]", "Select elements", cobra.MinimumNArgs(2)},
		{domain.OpRemove, "remove [filter-id] [key...]", "Deselect elements", cobra.MinimumNArgs(2)},
		{domain.OpOnly, "only [filter-id] [key]", "Select one element and nothing else", cobra.ExactArgs(2)},
		{domain.OpAll, "all [filter-id]", "Select every element", cobra.ExactArgs(1)},
		{domain.OpNone, "none [filter-id]", "Deselect every element", cobra.ExactArgs(1)},
		{domain.OpInvert, "invert [filter-id]", "Invert the selection", cobra.ExactArgs(1)},
		{domain.OpClear, "clear [filter-id]", "Reset the selection", cobra.ExactArgs(1)},
	}

	cmds := make([]*cobra.Command, 0, len(specs))
	for _, s := range specs {
		kind := s.kind
		cmds = append(cmds, &cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  s.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFilterApply(cmd, args[0], domain.SelectionOp{Kind: kind, Keys: args[1:]})
			},
		})
	}
	return cmds
}

func runFilterCreate(cmd *cobra.Command, args []string) error {
	if filterService == nil {
		return errFiltersNotConfigured
	}

	by, err := domain.ParseElementsBy(filterBy)
	if err != nil {
		return err
	}
	mode := domain.SelectionModeMulti
	if filterSingle {
		mode = domain.SelectionModeSingle
	}

	f, err := filterService.Create(commandContext(cmd), args[0], args[1], by, mode)
	if err != nil {
		return fmt.Errorf("failed to create filter: %w", err)
	}

	cmd.Printf("Created filter %s (%s)\n", f.ID, f.Name)
	return nil
}

func runFilterList(cmd *cobra.Command, _ []string) error {
	if filterService == nil {
		return errFiltersNotConfigured
	}

	filters, err := filterService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list filters: %w", err)
	}

	if len(filters) == 0 {
		cmd.Println("No filters. Use 'attrfilter filter create' to add one.")
		return nil
	}

	for i := range filters {
		f := &filters[i]
		dirty := ""
		if f.IsDirty() {
			dirty = " (uncommitted changes)"
		}
		cmd.Printf("  %s  %s  [%s]%s\n", f.ID, f.Name, f.DisplayForm, dirty)
	}
	return nil
}

func runFilterShow(cmd *cobra.Command, args []string) error {
	if filterService == nil {
		return errFiltersNotConfigured
	}

	f, err := filterService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get filter: %w", err)
	}

	if filterJSON {
		return printJSON(cmd, f)
	}

	printFilter(cmd, f)
	return nil
}

func runFilterDelete(cmd *cobra.Command, args []string) error {
	if filterService == nil {
		return errFiltersNotConfigured
	}

	if err := filterService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete filter: %w", err)
	}

	cmd.Printf("Deleted filter %s\n", args[0])
	return nil
}

func runFilterApply(cmd *cobra.Command, id string, op domain.SelectionOp) error {
	if filterService == nil {
		return errFiltersNotConfigured
	}

	f, err := filterService.Apply(commandContext(cmd), id, op)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op.Kind, err)
	}

	cmd.Printf("Working: %s\n", describeSelection(f.Working))
	return nil
}

func runFilterCommit(cmd *cobra.Command, args []string) error {
	if filterService == nil {
		return errFiltersNotConfigured
	}

	f, err := filterService.Commit(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to commit filter: %w", err)
	}

	cmd.Printf("Committed: %s\n", describeSelection(f.Committed))
	return nil
}

func runFilterRevert(cmd *cobra.Command, args []string) error {
	if filterService == nil {
		return errFiltersNotConfigured
	}

	f, err := filterService.Revert(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to revert filter: %w", err)
	}

	cmd.Printf("Working: %s\n", describeSelection(f.Working))
	return nil
}

func runFilterExport(cmd *cobra.Command, args []string) error {
	if filterService == nil {
		return errFiltersNotConfigured
	}

	af, err := filterService.Export(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to export filter: %w", err)
	}
	return printJSON(cmd, af)
}

func printFilter(cmd *cobra.Command, f *domain.SavedFilter) {
	cmd.Printf("Filter: %s\n", f.ID)
	cmd.Printf("  Name: %s\n", f.Name)
	cmd.Printf("  Display form: %s\n", f.DisplayForm)
	cmd.Printf("  Keyed by: %s\n", f.ElementsBy)
	cmd.Printf("  Mode: %s\n", f.Mode)
	cmd.Printf("  Working: %s\n", describeSelection(f.Working))
	cmd.Printf("  Committed: %s\n", describeSelection(f.Committed))
	if f.IsDirty() {
		cmd.Println("  (uncommitted changes)")
	}
}

func describeSelection(sel domain.Selection) string {
	keys := sel.Items.Keys()
	switch {
	case sel.Inverted && len(keys) == 0:
		return "all"
	case !sel.Inverted && len(keys) == 0:
		return "none"
	case sel.Inverted:
		return "all except " + strings.Join(keys, ", ")
	default:
		return strings.Join(keys, ", ")
	}
}
