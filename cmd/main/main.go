package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"warehouse-service/internal/config"
	"warehouse-service/internal/fileio"
	"warehouse-service/internal/lookup/model"
	"warehouse-service/internal/lookup/service"
	"warehouse-service/internal/lookup/store"
)

func main() {
	root := &cobra.Command{
		Use:           "warehouse-service",
		Short:         "Поиск деталей на складе по номеру или серийному номеру",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newFindCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildSource выбирает источник по конфигу: Google-таблица или файл.
func buildSource(ctx context.Context, cfg config.Config) (store.Source, error) {
	if cfg.UseSheets() {
		rd, err := fileio.NewSheetsReader(ctx, cfg.SheetsCredentials, cfg.SheetsSpreadsheetID)
		if err != nil {
			return nil, err
		}
		return store.SheetsSource{Reader: rd, Range: cfg.SheetsRange, HeaderRow: cfg.HeaderRow}, nil
	}
	return store.FileSource{
		Path: cfg.DataFile,
		Opt:  fileio.Options{HeaderRow: cfg.HeaderRow, Sheet: cfg.SheetName},
	}, nil
}

func buildStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*store.Store, error) {
	src, err := buildSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cols, err := store.LoadColumns(cfg.ColumnsFile)
	if err != nil {
		return nil, err
	}
	return store.New(src, cols, cfg.ReloadMode, logger)
}

func buildMatcher(cfg config.Config) *service.Matcher {
	return service.NewMatcher(model.Options{Threshold: cfg.MatchThreshold, Limit: cfg.MatchLimit})
}
