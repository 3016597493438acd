package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdxmph/family-contacts/internal/config"
	"github.com/pdxmph/family-contacts/internal/contact"
	"github.com/pdxmph/family-contacts/internal/dialer"
	"github.com/pdxmph/family-contacts/internal/logging"
	"github.com/pdxmph/family-contacts/internal/storage"
	"github.com/pdxmph/family-contacts/internal/tui"
	"github.com/pdxmph/family-contacts/internal/view"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// app holds everything a command needs once configuration is read
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	kv     storage.Store
	store  *contact.Store
}

// rootCmd runs the contact list
var rootCmd = &cobra.Command{
	Use:   "family-contacts",
	Short: "Keep track of which family members you have called",
	Long: `family-contacts shows your family as a list of cards. Calling someone
marks them called; a reset starts the round again.

Run without arguments to start the interactive list.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		params, err := a.params()
		if err != nil {
			return err
		}

		model := tui.New(tui.Options{
			Store:     a.store,
			Prefs:     a.kv,
			Dialer:    dialer.Select(a.cfg.Dialer.Command),
			Locale:    view.LocaleFor(a.cfg.UI.Locale),
			Params:    params,
			ExportDir: a.cfg.Export.Dir,
			Logger:    a.logger,
		})

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running ui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(legacyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApp reads config, starts logging and loads the contact list. A storage
// backend that cannot be opened is replaced by one that refuses every write,
// so the list still shows its defaults.
func openApp() (*app, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return nil, err
	}

	kv, err := openStorage(cfg.Storage)
	if err != nil {
		logger.Warn("storage unavailable, changes will not be saved",
			zap.String("backend", cfg.Storage.Backend),
			zap.String("path", cfg.Storage.Path),
			zap.Error(err))
		kv = storage.NewUnavailable()
	}

	store := contact.NewStore(kv, contact.WithLogger(logger))
	store.Load()

	logger.Debug("loaded contacts",
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("count", len(store.Contacts())))

	return &app{cfg: cfg, logger: logger, kv: kv, store: store}, nil
}

func openStorage(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "sqlite", "file":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}
	return storage.Open(cfg.Backend, cfg.Path)
}

// params turns the configured defaults into a projection
func (a *app) params() (view.Params, error) {
	filter, err := view.ParseFilter(a.cfg.UI.Filter)
	if err != nil {
		return view.Params{}, err
	}
	sort, err := view.ParseSortKey(a.cfg.UI.Sort)
	if err != nil {
		return view.Params{}, err
	}
	return view.Params{Filter: filter, Sort: sort}, nil
}

// Close releases storage and flushes the log
func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("closing storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}
