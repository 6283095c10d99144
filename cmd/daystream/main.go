package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daystream/internal/api"
	"github.com/sandeepkv93/daystream/internal/config"
	"github.com/sandeepkv93/daystream/internal/export"
	"github.com/sandeepkv93/daystream/internal/logging"
	"github.com/sandeepkv93/daystream/internal/planner"
	"github.com/sandeepkv93/daystream/internal/storage"
	"github.com/sandeepkv93/daystream/internal/tasks"
	"github.com/sandeepkv93/daystream/internal/update"
)

const usage = `usage: daystream [-config path] [command]

commands:
  (none)        run the terminal planner
  serve         run the local HTTP API
  export FILE   write all tasks as an iCalendar file
`

type closableStore interface {
	storage.Store
	Close() error
}

func main() {
	fs := flag.NewFlagSet("daystream", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath(), "path to the YAML config file")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daystream: %v\n", err)
		os.Exit(1)
	}

	args := fs.Args()
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "":
		err = runTUI(cfg)
	case "serve":
		err = runServer(cfg)
	case "export":
		if len(args) != 2 {
			fs.Usage()
			os.Exit(2)
		}
		err = runExport(cfg, args[1])
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "daystream failed: %v\n", err)
		os.Exit(1)
	}
}

func openStore(cfg config.RuntimeConfig) (closableStore, error) {
	switch cfg.StoreBackend {
	case config.StoreFile:
		return storage.NewFileStore(cfg.StorePath)
	default:
		return storage.OpenSQLite(cfg.StorePath)
	}
}

func newPlanner(cfg config.RuntimeConfig, logger *logrus.Logger) planner.Planner {
	if cfg.Planner.APIKey == "" {
		logger.Info("planner api key not set; planning disabled")
		return nil
	}
	return planner.NewGeminiClient(cfg.Planner.APIKey, cfg.Planner.Model, cfg.Planner.Endpoint, cfg.Planner.Timeout, logger)
}

func newController(ctx context.Context, store storage.Store, logger *logrus.Logger, opts ...tasks.Option) (*tasks.Controller, error) {
	opts = append([]tasks.Option{tasks.WithLogger(logger)}, opts...)
	ctrl := tasks.New(storage.NewTaskRepository(store, logger), opts...)
	if err := ctrl.Load(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func runTUI(cfg config.RuntimeConfig) error {
	out := io.Discard
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.New("daystream-tui", cfg.LogLevel, out)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	ctrl, err := newController(ctx, store, logger)
	if err != nil {
		return err
	}
	prefs, err := storage.LoadPreferences(ctx, store)
	if err != nil {
		logger.WithError(err).Warn("failed to load preferences; using defaults")
		prefs = storage.DefaultPreferences()
	}

	program := tea.NewProgram(update.NewModel(update.Deps{
		Tasks:       ctrl,
		Planner:     newPlanner(cfg, logger),
		Store:       store,
		Logger:      logger,
		PlanTimeout: cfg.Planner.Timeout,
	}, prefs), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func runServer(cfg config.RuntimeConfig) error {
	logger := logging.New("daystream-api", cfg.LogLevel, os.Stdout)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := api.NewMetrics()
	ctrl, err := newController(ctx, store, logger, tasks.WithMutationHook(metrics.ObserveMutation))
	if err != nil {
		return err
	}
	srv := api.NewServer(ctrl, logger,
		api.WithPlanner(newPlanner(cfg, logger)),
		api.WithMetrics(metrics),
		api.WithPlanTimeout(cfg.Planner.Timeout),
		api.WithAllowedOrigins(cfg.AllowedOrigins),
	)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("http server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func runExport(cfg config.RuntimeConfig, path string) error {
	logger := logging.New("daystream-export", cfg.LogLevel, os.Stderr)
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl, err := newController(context.Background(), store, logger)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteICS(f, ctrl.Tasks(), time.Now()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
