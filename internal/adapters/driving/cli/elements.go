package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

var elementsCmd = &cobra.Command{
	Use:   "elements",
	Short: "List and import attribute elements",
	Long:  `List the elements of a display form page by page, look elements up by key, or import them into the local store.`,
}

var elementsListCmd = &cobra.Command{
	Use:   "list [display-form]",
	Short: "List one page of elements",
	Args:  cobra.ExactArgs(1),
	RunE:  runElementsList,
}

var elementsGetCmd = &cobra.Command{
	Use:   "get [display-form] [key...]",
	Short: "Look elements up by key",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runElementsGet,
}

var elementsImportCmd = &cobra.Command{
	Use:   "import [display-form] [file]",
	Short: "Import elements from a YAML or JSON file",
	Long: `Replace the stored elements of a display form with the contents of a file.

The file holds a list of elements:

  - uri: /elements/1
    value: north
    title: North`,
	Args: cobra.ExactArgs(2),
	RunE: runElementsImport,
}

var elementsFormsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List display forms with stored elements",
	Args:  cobra.NoArgs,
	RunE:  runElementsForms,
}

var elementsBrowseCmd = &cobra.Command{
	Use:   "browse [display-form]",
	Short: "Load several pages and show what is still pending",
	Long: `Load consecutive pages starting at --start and merge them into one list.
Positions no page has covered yet are reported as pending.`,
	Args: cobra.ExactArgs(1),
	RunE: runElementsBrowse,
}

var (
	elementsOffset int
	elementsLimit  int
	elementsSearch string
	elementsOrder  string
	elementsBy     string
	elementsJSON   bool
	browsePages    int
	browseStart    int
)

func init() {
	elementsListCmd.Flags().IntVar(&elementsOffset, "offset", 0, "Position of the first element")
	elementsListCmd.Flags().IntVarP(&elementsLimit, "limit", "l", 0, "Page size (default from settings)")
	elementsListCmd.Flags().StringVarP(&elementsSearch, "search", "s", "", "Case-insensitive title search")
	elementsListCmd.Flags().StringVar(&elementsOrder, "order", "", "Sort by title: asc or desc")
	elementsListCmd.Flags().BoolVar(&elementsJSON, "json", false, "Output the page as JSON")

	elementsGetCmd.Flags().StringVar(&elementsBy, "by", "uri", "Key kind: uri or value")
	elementsGetCmd.Flags().BoolVar(&elementsJSON, "json", false, "Output as JSON")

	elementsBrowseCmd.Flags().IntVar(&browsePages, "pages", 2, "Number of pages to load")
	elementsBrowseCmd.Flags().IntVar(&browseStart, "start", 0, "Position of the first page")
	elementsBrowseCmd.Flags().IntVarP(&elementsLimit, "limit", "l", 0, "Page size (default from settings)")
	elementsBrowseCmd.Flags().StringVarP(&elementsSearch, "search", "s", "", "Case-insensitive title search")

	elementsCmd.AddCommand(elementsListCmd)
	elementsCmd.AddCommand(elementsGetCmd)
	elementsCmd.AddCommand(elementsImportCmd)
	elementsCmd.AddCommand(elementsFormsCmd)
	elementsCmd.AddCommand(elementsBrowseCmd)
	rootCmd.AddCommand(elementsCmd)
}

func runElementsList(cmd *cobra.Command, args []string) error {
	if elementService == nil {
		return errElementsNotConfigured
	}

	order := domain.SortOrder(elementsOrder)
	if !order.IsValid() {
		return fmt.Errorf("%w: unknown order %q", domain.ErrInvalidInput, elementsOrder)
	}

	page, err := elementService.ListPage(commandContext(cmd), args[0], domain.LoadOptions{
		Offset: elementsOffset,
		Limit:  elementsLimit,
		Search: elementsSearch,
		Order:  order,
	})
	if err != nil {
		return fmt.Errorf("failed to list elements: %w", err)
	}

	if elementsJSON {
		return printJSON(cmd, page)
	}

	if len(page.Elements) == 0 {
		cmd.Printf("No elements found for %s\n", args[0])
		return nil
	}

	for i, e := range page.Elements {
		printElement(cmd, page.Offset+i, e)
	}
	cmd.Println()
	cmd.Printf("Showing %d-%d of %d\n", page.Offset+1, page.Offset+len(page.Elements), page.TotalCount)
	return nil
}

func runElementsGet(cmd *cobra.Command, args []string) error {
	if elementService == nil {
		return errElementsNotConfigured
	}

	by, err := domain.ParseElementsBy(elementsBy)
	if err != nil {
		return err
	}

	elements, err := elementService.GetByKeys(commandContext(cmd), args[0], by, args[1:])
	if err != nil {
		return fmt.Errorf("failed to get elements: %w", err)
	}

	if elementsJSON {
		return printJSON(cmd, elements)
	}

	if len(elements) == 0 {
		cmd.Println("No matching elements")
		return nil
	}
	for i, e := range elements {
		printElement(cmd, i, e)
	}
	return nil
}

func runElementsImport(cmd *cobra.Command, args []string) error {
	if elementService == nil {
		return errElementsNotConfigured
	}

	elements, err := readElements(args[1])
	if err != nil {
		return err
	}

	n, err := elementService.Import(commandContext(cmd), args[0], elements)
	if err != nil {
		return fmt.Errorf("failed to import elements: %w", err)
	}

	cmd.Printf("Imported %d elements into %s\n", n, args[0])
	return nil
}

func runElementsForms(cmd *cobra.Command, _ []string) error {
	if elementService == nil {
		return errElementsNotConfigured
	}

	forms, err := elementService.DisplayForms(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list display forms: %w", err)
	}

	if len(forms) == 0 {
		cmd.Println("No display forms stored. Use 'attrfilter elements import' to add some.")
		return nil
	}
	for _, f := range forms {
		cmd.Printf("  %s\n", f)
	}
	return nil
}

func runElementsBrowse(cmd *cobra.Command, args []string) error {
	if elementService == nil {
		return errElementsNotConfigured
	}
	if browsePages <= 0 {
		return fmt.Errorf("%w: --pages must be positive", domain.ErrInvalidInput)
	}

	limit := elementsLimit
	if limit <= 0 {
		limit = elementService.PageSize()
	}

	ctx := commandContext(cmd)
	var list *domain.ElementList
	for i := 0; i < browsePages; i++ {
		page, err := elementService.ListPage(ctx, args[0], domain.LoadOptions{
			Offset: browseStart + i*limit,
			Limit:  limit,
			Search: elementsSearch,
		})
		if err != nil {
			return fmt.Errorf("failed to load page %d: %w", i+1, err)
		}
		list = domain.MergePage(list, page)
		if len(page.Elements) < limit {
			break
		}
	}

	for i := 0; i < list.Len(); i++ {
		if e, ok := list.At(i).Element(); ok {
			printElement(cmd, i, e)
		} else {
			cmd.Printf("  %4d  (pending)\n", i+1)
		}
	}
	cmd.Println()
	cmd.Printf("Loaded %d of %d elements\n", list.LoadedCount(), list.TotalCount)

	pending := list.PendingRanges(limit)
	if len(pending) == 0 {
		cmd.Println("Nothing pending")
		return nil
	}
	parts := make([]string, 0, len(pending))
	for _, r := range pending {
		parts = append(parts, fmt.Sprintf("%d-%d", r.Offset+1, r.Offset+r.Limit))
	}
	cmd.Printf("Pending: %s\n", strings.Join(parts, ", "))
	return nil
}

// readElements decodes a YAML or JSON list of elements.
func readElements(path string) ([]domain.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var elements []domain.Element
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &elements)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &elements)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (want .yaml, .yml or .json)",
			domain.ErrInvalidInput, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return elements, nil
}

func printElement(cmd *cobra.Command, pos int, e domain.Element) {
	cmd.Printf("  %4d  %s\n", pos+1, e.Title)
	if e.URI != "" {
		cmd.Printf("        URI: %s\n", e.URI)
	}
	if e.Value != "" && e.Value != e.Title {
		cmd.Printf("        Value: %s\n", e.Value)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
