package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pdxmph/family-contacts/internal/contact"
	"github.com/pdxmph/family-contacts/internal/dialer"
	"github.com/pdxmph/family-contacts/internal/tui"
	"github.com/pdxmph/family-contacts/internal/view"
)

var (
	listSearch   string
	listFilter   string
	listSort     string
	legacySource string
)

// listCmd prints the projected list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print contacts with their call status",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// exportCmd writes a JSON backup
var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write all contacts to a JSON backup",
	Long: `Write all contacts to a JSON backup. Without a path the backup goes to
family-contacts-backup.json in the configured export directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

// importCmd replaces the list from a backup
var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace all contacts with a JSON backup",
	Long: `Replace all contacts with the contents of a JSON backup. The file must be
a list of contacts, each with an id and a name; nothing changes if any entry is
invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// resetCmd marks everyone not called
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Mark every contact not called",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

// legacyCmd shows a fetched seed list
var legacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Show a read-only list loaded from a file or URL",
	Long: `Show a static list of {name, phone} entries loaded once from a file or an
http(s) URL. Calling a number marks it called; there is no way to undo that
in this mode.`,
	Args: cobra.NoArgs,
	RunE: runLegacy,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive search over name, relation and phones")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "all, called or not_called (default from config)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "name_asc, name_desc, relation_asc or recent (default from config)")

	legacyCmd.Flags().StringVar(&legacySource, "source", "", "Path or URL of the contact list (required)")
	legacyCmd.MarkFlagRequired("source")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	params, err := a.params()
	if err != nil {
		return err
	}
	params.Search = listSearch
	if listFilter != "" {
		if params.Filter, err = view.ParseFilter(listFilter); err != nil {
			return err
		}
	}
	if listSort != "" {
		if params.Sort, err = view.ParseSortKey(listSort); err != nil {
			return err
		}
	}

	locale := view.LocaleFor(a.cfg.UI.Locale)
	page := view.NewPresenter(locale).Page(a.store.Contacts(), params)

	out := cmd.OutOrStdout()
	if len(page.Cards) == 0 {
		fmt.Fprintln(out, locale.Empty)
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Name", "Relation", "Phone", "Status", "Last called", "Calls")
		for _, c := range page.Cards {
			t.Row(c.Name, c.Relation, c.Primary, c.StatusText, c.LastCalled, strconv.Itoa(c.CallCount))
		}
		fmt.Fprintln(out, t.String())
	}

	fmt.Fprintf(out, "%s %d • %s %d • %s %d\n",
		locale.Total, page.Counts.Total,
		locale.Called, page.Counts.Called,
		locale.NotCalled, page.Counts.NotCalled)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	path := filepath.Join(a.cfg.Export.Dir, contact.ExportFileName)
	if len(args) == 1 {
		path = args[0]
	}

	if err := a.store.ExportFile(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contacts to %s\n", len(a.store.Contacts()), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	if err := a.store.Import(f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d contacts\n", len(a.store.Contacts()))
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.ResetAll(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All contacts marked not called")
	return nil
}

func runLegacy(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewLegacy(tui.LegacyOptions{
		Source: legacySource,
		Prefs:  a.kv,
		Dialer: dialer.Select(a.cfg.Dialer.Command),
		Logger: a.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
