package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"pagesummarizer/internal/application"
	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"
	"pagesummarizer/internal/infrastructure/browser"
	"pagesummarizer/internal/infrastructure/llm"
	"pagesummarizer/internal/infrastructure/logging"
	"pagesummarizer/internal/infrastructure/scraper"
	"pagesummarizer/internal/infrastructure/settings"
	"pagesummarizer/internal/infrastructure/storage"
	"pagesummarizer/internal/infrastructure/youtube"
	"pagesummarizer/internal/interfaces/config"
	"pagesummarizer/internal/interfaces/httpapi"
)

func main() {
	app := &cli.App{
		Name:  "pagesummarizer",
		Usage: "Summarize web pages and YouTube transcripts with an LLM",
		Commands: []*cli.Command{
			{
				Name:      "summarize",
				Usage:     "Load a page and print its summary",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "save", Usage: "store the summary for later"},
				},
				Action: summarizeAction,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveAction,
			},
			{
				Name:   "saved",
				Usage:  "List saved summaries, newest first",
				Action: savedAction,
			},
			{
				Name:  "settings",
				Usage: "Update the summarization settings file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "provider"},
					&cli.StringFlag{Name: "endpoint-url"},
					&cli.StringFlag{Name: "model"},
					&cli.StringFlag{Name: "api-key"},
					&cli.Float64Flag{Name: "temperature"},
					&cli.IntFlag{Name: "max-tokens"},
					&cli.StringFlag{Name: "region"},
				},
				Action: settingsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("pagesummarizer failed")
	}
}

// appContext holds what a command needs. close releases resources in reverse
// order of acquisition.
type appContext struct {
	cfg     *config.Config
	service *application.SummarizeService
	closers []func() error
}

func (a *appContext) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.WithError(err).Warn("Cleanup failed")
		}
	}
}

func setup() (*appContext, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	a := &appContext{cfg: cfg}

	logCloser, err := logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, logCloser.Close)

	tabs, err := newTabs(cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}

	saved, err := newSavedStore(cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}

	summarizer := llm.NewSummarizer(newSettings(cfg), llm.Config{})
	transcripts := youtube.NewExtractor(youtube.Config{
		PollInterval: cfg.GetPollInterval(),
		MaxAttempts:  cfg.PollMaxAttempts,
	})

	a.service = application.NewSummarizeService(
		tabs,
		scraper.NewContentExtractor(),
		transcripts,
		summarizer,
		saved,
	)

	logrus.WithFields(logrus.Fields{
		"browser": cfg.Browser,
		"storage": cfg.Storage,
	}).Debug("Application initialized")

	return a, nil
}

func newTabs(cfg *config.Config, a *appContext) (repository.TabRepository, error) {
	if cfg.Browser == config.BrowserChrome {
		tabs, err := browser.NewChromeTabs(browser.ChromeOptions{
			ExecPath:  cfg.ChromePath,
			UserAgent: cfg.UserAgent,
			Headless:  true,
			Timeout:   cfg.GetFetchTimeout(),
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			tabs.Close()
			return nil
		})
		return tabs, nil
	}

	return browser.NewStaticTabs(cfg.GetFetchTimeout(), cfg.UserAgent), nil
}

func newSavedStore(cfg *config.Config, a *appContext) (repository.SavedSummaryRepository, error) {
	if cfg.Storage == config.StorageSQLite {
		store, err := storage.NewSQLiteSummaryRepository(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	}
	return storage.NewMemorySummaryRepository(), nil
}

func newSettings(cfg *config.Config) repository.SettingsRepository {
	if cfg.SettingsFile != "" {
		return settings.NewFileRepository(cfg.SettingsFile)
	}
	return settings.NewEnvRepository()
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func summarizeAction(c *cli.Context) error {
	pageURL := strings.TrimSpace(c.Args().First())
	if pageURL == "" {
		return cli.Exit("a URL is required", 2)
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	finalURL, err := a.service.Navigate(ctx, pageURL)
	if err != nil {
		return err
	}

	resp := a.service.SummarizePage(ctx, finalURL)
	if resp.Failed() {
		return cli.Exit(resp.Error, 1)
	}

	fmt.Println(resp.Summary)

	if c.Bool("save") {
		saved, err := a.service.Save(ctx, finalURL, resp)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "Saved as %s\n", saved.ID)
	}
	return nil
}

func serveAction(c *cli.Context) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	server := httpapi.NewServer(a.cfg.ListenAddr, a.service,
		httpapi.WithLogger(logrus.StandardLogger()),
		httpapi.WithRateLimit(a.cfg.RateLimit, a.cfg.RateBurst),
	)

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logrus.Info("Shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

func savedAction(c *cli.Context) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	list, err := a.service.Saved(c.Context)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No saved summaries")
		return nil
	}

	for _, s := range list {
		fmt.Printf("%-36s  %s  %-40s  %s\n",
			s.ID,
			s.Timestamp.Local().Format("2006-01-02 15:04:05"),
			s.Title,
			s.URL,
		)
	}
	fmt.Printf("\nTotal: %d summaries\n", len(list))
	return nil
}

func settingsAction(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if cfg.SettingsFile == "" {
		return cli.Exit("SETTINGS_FILE must be set to store settings", 2)
	}

	repo := settings.NewFileRepository(cfg.SettingsFile)
	current, err := repo.Load(c.Context)
	if err != nil {
		return err
	}

	applySettingsFlags(c, &current)

	if err := repo.Save(c.Context, current); err != nil {
		return err
	}
	fmt.Printf("Settings written to %s\n", cfg.SettingsFile)
	return nil
}

func applySettingsFlags(c *cli.Context, s *entity.SummarizationSettings) {
	if c.IsSet("provider") {
		s.Provider = c.String("provider")
	}
	if c.IsSet("endpoint-url") {
		s.EndpointURL = c.String("endpoint-url")
	}
	if c.IsSet("model") {
		s.ModelName = c.String("model")
	}
	if c.IsSet("api-key") {
		s.APIKey = c.String("api-key")
	}
	if c.IsSet("temperature") {
		s.Temperature = c.Float64("temperature")
	}
	if c.IsSet("max-tokens") {
		s.MaxTokens = c.Int("max-tokens")
	}
	if c.IsSet("region") {
		s.Region = c.String("region")
	}
}
