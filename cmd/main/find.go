package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"warehouse-service/internal/config"
	"warehouse-service/internal/lookup/service"
)

// find делает разовый поиск из консоли и печатает ответ бота.
func newFindCmd() *cobra.Command {
	var (
		file  string
		limit int
	)
	cmd := &cobra.Command{
		Use:     "find <запрос>",
		Short:   "Найти деталь в файле склада и напечатать ответ",
		Example: `  warehouse-service find "пу-11" --file warehouse.xlsx`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if file != "" {
				cfg.DataFile = file
				cfg.SheetsSpreadsheetID = ""
			}
			if limit > 0 {
				cfg.MatchLimit = limit
			}
			cfg.ReloadMode = "per_query"
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			st, err := buildStore(ctx, cfg, zerolog.Nop())
			if err != nil {
				return err
			}
			matches, err := st.Lookup(ctx, strings.Join(args, " "), buildMatcher(cfg))
			fmt.Fprintln(cmd.OutOrStdout(), service.Reply(matches, err))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "файл склада (xlsx/xls/csv), по умолчанию WAREHOUSE_FILE")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "максимум записей в ответе")
	return cmd
}
