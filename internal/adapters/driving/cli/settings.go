package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// tokenKey is the setting read without echo when no value is given.
const tokenKey = "source.token"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long:  `View and change the page size, data directory and element source.`,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting.

Keys:
  elements.page_size  Elements fetched per page
  core.data_dir       Data directory
  source.kind         local or remote
  source.url          Base URL of the remote element service
  source.token        Bearer token (prompted without echo when omitted)
  source.rate         Remote requests per second`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Elements]")
	cmd.Printf("  Page size: %d\n", settings.PageSize)
	cmd.Println()

	cmd.Println("[Core]")
	dir := settings.DataDir
	if dir == "" {
		dir = "(default)"
	}
	cmd.Printf("  Data dir: %s\n", dir)
	cmd.Println()

	cmd.Println("[Source]")
	cmd.Printf("  Kind: %s\n", settings.Source)
	if settings.Source == domain.SourceRemote {
		cmd.Printf("  URL: %s\n", settings.RemoteURL)
		if settings.RemoteToken != "" {
			cmd.Printf("  Token: %s\n", maskAPIKey(settings.RemoteToken))
		} else {
			cmd.Printf("  Token: (not set)\n")
		}
		cmd.Printf("  Rate: %.1f req/s\n", settings.RemoteRate)
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == tokenKey:
		cmd.Print("Token: ")
		value = readPassword(cmd.InOrStdin())
		cmd.Println()
	default:
		return fmt.Errorf("%w: %s needs a value", domain.ErrInvalidInput, key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == tokenKey {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
