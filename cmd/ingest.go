package main

import (
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/salesdash/internal/fetcher"
	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/normalize"
)

var (
	ingestFiles   []string
	ingestSource  string
	ingestSheet   string
	ingestReplace bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest activity sheets into the record store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if ingestReplace && ingestSource != "" {
			n, err := env.Store.DeleteSource(ctx, ingestSource)
			if err != nil {
				return eris.Wrap(err, "delete source")
			}
			zap.L().Info("replaced source", zap.String("source", ingestSource), zap.Int64("deleted", n))
		}

		var saved, skipped atomic.Int64

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Ingest.MaxParallel)

		for _, path := range ingestFiles {
			g.Go(func() error {
				rows, err := fetcher.RowsFromFile(path, fetcher.Options{
					SheetName: ingestSheet,
					SkipRows:  cfg.Ingest.SkipRows,
				})
				if err != nil {
					return eris.Wrapf(err, "read %s", path)
				}

				source := ingestSource
				if source == "" {
					source = path
				}
				norm := normalize.New(normalize.DefaultAliases(), normalize.WithSource(source))

				records := make([]model.ActivityRecord, 0, len(rows))
				for _, row := range rows {
					rec, ok := norm.Record(row)
					if !ok {
						skipped.Add(1)
						continue
					}
					records = append(records, rec)
				}

				if err := env.Store.SaveRecords(ctx, records); err != nil {
					return eris.Wrapf(err, "save %s", path)
				}
				saved.Add(int64(len(records)))

				zap.L().Info("ingested file",
					zap.String("file", path),
					zap.Int("rows", len(rows)),
					zap.Int("records", len(records)),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("ingest complete",
			zap.Int64("saved", saved.Load()),
			zap.Int64("skipped", skipped.Load()),
		)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringArrayVar(&ingestFiles, "file", nil, "activity sheet to ingest (.xlsx or .csv, repeatable)")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "source label stored on every record (default: file path)")
	ingestCmd.Flags().StringVar(&ingestSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	ingestCmd.Flags().BoolVar(&ingestReplace, "replace", false, "delete existing records for --source before ingesting")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}
