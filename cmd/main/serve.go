package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"warehouse-service/internal/config"
	lookupHnd "warehouse-service/internal/lookup/handler"
	"warehouse-service/internal/lookup/store"
	"warehouse-service/internal/telegram"
	serverhttp "warehouse-service/server/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "HTTP API и (если задан TELEGRAM_TOKEN) телеграм-бот",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if cfg.ReloadMode != store.ModePerQuery {
		// не фатально: Current попробует ещё раз на первом запросе
		if _, err := st.Reload(ctx); err != nil {
			logger.Warn().Err(err).Msg("initial load failed")
		}
	}

	switch cfg.ReloadMode {
	case store.ModeWatch:
		w, err := store.NewWatcher(st, cfg.DataFile, 0)
		if err != nil {
			return err
		}
		defer w.Close()
		go w.Run(ctx)
	case store.ModeSchedule:
		sch, err := store.NewScheduler(st, cfg.ReloadCron, cfg.LookupTimeout)
		if err != nil {
			return err
		}
		sch.Start()
		defer sch.Stop()
	}

	matcher := buildMatcher(cfg)
	deps := lookupHnd.Deps{Store: st, Matcher: matcher, Timeout: cfg.LookupTimeout}

	if cfg.TelegramToken != "" {
		api := telegram.NewClient(cfg.TelegramAPIURL, cfg.TelegramToken)
		bot := telegram.NewBot(api, st, matcher, cfg.TelegramPollTimeout, cfg.LookupTimeout, logger)
		go func() { _ = bot.Run(ctx) }()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           serverhttp.NewRouter(cfg, logger, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Str("reload", cfg.ReloadMode).Msg("server starting")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// graceful shutdown
	logger.Info().Msg("server shutting down")
	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	logger.Info().Msg("bye")
	return nil
}
