package runner

import (
	"context"
	"fmt"

	"customer-analytics/internal/config"
	"customer-analytics/internal/database"
	"customer-analytics/internal/dataset"
	"customer-analytics/internal/loader"

	"go.uber.org/zap"
)

// Seed copies the CSV datasets configured in cfg into the database source
// named by target, one table or collection per dataset.
func Seed(ctx context.Context, cfg *config.Config, logger *zap.Logger, target string) error {
	if target == config.SourceCSV {
		return fmt.Errorf("seed target must be a database source, got %q", target)
	}

	csvCfg := *cfg
	csvCfg.Datasets.Source = config.SourceCSV
	ld := loader.New(&csvCfg, logger)

	driver, err := database.New(cfg.Databases, target)
	if err != nil {
		return err
	}
	if err := driver.Connect(cfg.Databases.DSN(target)); err != nil {
		return fmt.Errorf("connect to %s: %w", target, err)
	}
	defer driver.Close()

	log := logger.Named("seed")
	for _, name := range dataset.All {
		records, err := ld.Records(ctx, name)
		if err != nil {
			return err
		}
		ddl, err := dataset.Schema(name)
		if err != nil {
			return err
		}
		if err := driver.WriteTable(ctx, string(name), ddl, project(records, dataset.StoredColumns(name))); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		log.Info("seeded", zap.String("dataset", string(name)), zap.String("target", target), zap.Int("rows", len(records)-1))
	}
	return nil
}

// project reorders records to columns. Columns absent from the header come
// out empty.
func project(records [][]string, columns []string) [][]string {
	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[h] = i
	}

	out := make([][]string, 0, len(records))
	out = append(out, columns)
	for _, record := range records[1:] {
		row := make([]string, len(columns))
		for i, c := range columns {
			if j, ok := index[c]; ok {
				row[i] = record[j]
			}
		}
		out = append(out, row)
	}
	return out
}
