package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/application/usecase"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/infrastructure/cdp"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/infrastructure/favicon"
	"github.com/bnema/tabshell/internal/infrastructure/filtering"
	"github.com/bnema/tabshell/internal/infrastructure/pages"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui"
)

var (
	browsePrivate   bool
	browseDumpState bool
)

var browseCmd = &cobra.Command{
	Use:   "browse [url]",
	Short: "Open a browser window",
	Long: `Open a browser window driven by a tab strip in this terminal.

If a URL is provided, the first tab navigates to it. Otherwise it opens the
configured home page. Logs go to the log file since the tab strip owns the
terminal.

Examples:
  tabshell browse                   # Open the home page
  tabshell browse example.com       # Open a URL
  tabshell browse --private         # First tab in its own partition`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().BoolVarP(&browsePrivate, "private", "p", false, "open the first tab as a private tab")
	browseCmd.Flags().BoolVar(&browseDumpState, "dump-state", false, "print the tab state as JSON on exit")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	cfg := a.Config

	ctx, stop := signal.NotifyContext(logging.WithComponent(a.Ctx(), "browse"), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	initialURL := ""
	if len(args) > 0 {
		initialURL = args[0]
	}

	pageServer := pages.NewServer(cfg.Pages.ListenAddr)
	if err := pageServer.Listen(ctx); err != nil {
		return fmt.Errorf("start internal pages: %w", err)
	}

	host, err := cdp.NewHost(ctx, cdp.Config{
		ExecPath:    cfg.Browser.ExecPath,
		Headless:    cfg.Browser.Headless,
		UserDataDir: cfg.Browser.UserDataDir,
	})
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer host.Close()

	filter, err := filtering.NewManager(filtering.ManagerConfig{
		Enabled:     cfg.Filtering.Enabled,
		Patterns:    cfg.Filtering.Patterns,
		Interceptor: host,
	})
	if err != nil {
		return fmt.Errorf("create content filter: %w", err)
	}
	filter.SetStatusCallback(func(s filtering.FilterStatus) {
		log.Debug().Str("state", string(s.State)).Str("message", s.Message).Msg("filter status")
	})

	win, err := ui.New(&ui.Dependencies{
		Ctx:          ctx,
		Config:       cfg,
		InitialURL:   initialURL,
		Private:      browsePrivate,
		Host:         host,
		Pages:        pageServer,
		HistoryUC:    usecase.NewRecordHistoryUseCase(a.History),
		PermissionUC: usecase.NewArbitratePermissionUseCase(allowedPermissions(cfg.Permissions.Allow)),
		Filter:       filter,
		Colors:       favicon.NewColorExtractor(),
	})
	if err != nil {
		return err
	}

	watchConfig(ctx, a.ConfigManager, win)

	log.Info().Str("pages", pageServer.Origin()).Bool("private", browsePrivate).Msg("window starting")
	if err := win.Run(); err != nil {
		return err
	}
	log.Info().Uint64("blocked_requests", filter.Blocked()).Msg("window closed")

	if browseDumpState {
		data, err := win.Snapshot()
		if err != nil {
			return fmt.Errorf("dump state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return nil
}

func watchConfig(ctx context.Context, mgr *config.Manager, win *ui.Window) {
	if err := mgr.Watch(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("config hot reload unavailable")
		return
	}
	mgr.OnConfigChange(func(cfg *config.Config) {
		logging.FromContext(ctx).Info().Msg("config reloaded")
		win.ApplyConfig(cfg)
	})
}

func allowedPermissions(names []string) []entity.PermissionType {
	perms := make([]entity.PermissionType, 0, len(names))
	for _, n := range names {
		perms = append(perms, entity.PermissionType(n))
	}
	return perms
}
