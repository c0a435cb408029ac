package loader

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"customer-analytics/internal/config"
	"customer-analytics/internal/database"
	"customer-analytics/internal/dataset"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"
)

// Loader fetches the five source datasets into typed tables.
type Loader struct {
	cfg           *config.Config
	log           *zap.Logger
	client        *http.Client
	timeout       time.Duration
	retryInterval time.Duration
}

func New(cfg *config.Config, log *zap.Logger) *Loader {
	timeout, err := cfg.Fetch.TimeoutDuration()
	if err != nil || timeout <= 0 {
		timeout = defaultTimeout
	}
	interval, err := cfg.Fetch.RetryIntervalDuration()
	if err != nil || interval <= 0 {
		interval = defaultRetryInterval
	}
	return &Loader{
		cfg:           cfg,
		log:           log.Named("loader"),
		client:        &http.Client{},
		timeout:       timeout,
		retryInterval: interval,
	}
}

// Location returns where a dataset is read from: a path or URL for the csv
// source, a table or collection name otherwise. Database sources fall back to
// the dataset name when the location is unset or names a CSV file.
func Location(ds config.Datasets, name dataset.Name) string {
	var loc string
	switch name {
	case dataset.Orders:
		loc = ds.Orders
	case dataset.OrderItems:
		loc = ds.OrderItems
	case dataset.Products:
		loc = ds.Products
	case dataset.Customers:
		loc = ds.Customers
	case dataset.Reviews:
		loc = ds.Reviews
	}
	if ds.Source == config.SourceCSV {
		return resolve(ds.BaseURL, loc)
	}
	if loc == "" || strings.HasSuffix(strings.ToLower(loc), ".csv") {
		return string(name)
	}
	return loc
}

// Load reads every dataset. The first unavailable dataset aborts the load.
func (l *Loader) Load(ctx context.Context) (*dataset.Tables, error) {
	frames, err := l.frames(ctx)
	if err != nil {
		return nil, err
	}

	tables := &dataset.Tables{}
	var dropped dataset.Dropped

	tables.Orders, dropped = dataset.ParseOrders(frames[dataset.Orders])
	l.reportDropped(dataset.Orders, dropped)
	tables.OrderItems, dropped = dataset.ParseOrderItems(frames[dataset.OrderItems])
	l.reportDropped(dataset.OrderItems, dropped)
	tables.Products, dropped = dataset.ParseProducts(frames[dataset.Products])
	l.reportDropped(dataset.Products, dropped)
	tables.Customers, dropped = dataset.ParseCustomers(frames[dataset.Customers])
	l.reportDropped(dataset.Customers, dropped)
	tables.Reviews, dropped = dataset.ParseReviews(frames[dataset.Reviews])
	l.reportDropped(dataset.Reviews, dropped)

	l.log.Info("datasets loaded",
		zap.String("source", l.cfg.Datasets.Source),
		zap.Int("orders", len(tables.Orders)),
		zap.Int("order_items", len(tables.OrderItems)),
		zap.Int("products", len(tables.Products)),
		zap.Int("customers", len(tables.Customers)),
		zap.Int("reviews", len(tables.Reviews)),
	)
	return tables, nil
}

func (l *Loader) frames(ctx context.Context) (map[dataset.Name]dataframe.DataFrame, error) {
	if l.cfg.Datasets.Source == config.SourceCSV {
		return l.csvFrames(ctx)
	}
	return l.databaseFrames(ctx)
}

func (l *Loader) csvFrames(ctx context.Context) (map[dataset.Name]dataframe.DataFrame, error) {
	frames := make(map[dataset.Name]dataframe.DataFrame, len(dataset.All))
	for _, name := range dataset.All {
		records, err := l.Records(ctx, name)
		if err != nil {
			return nil, err
		}
		location := Location(l.cfg.Datasets, name)
		df, err := toFrame(name, records)
		if err != nil {
			return nil, &DataUnavailableError{Dataset: name, Location: location, Err: err}
		}
		frames[name] = df
	}
	return frames, nil
}

// Records fetches one CSV dataset as text records, header first, after
// checking its required columns.
func (l *Loader) Records(ctx context.Context, name dataset.Name) ([][]string, error) {
	location := Location(l.cfg.Datasets, name)
	l.log.Debug("fetching dataset", zap.String("dataset", string(name)), zap.String("location", location))

	data, err := l.fetch(ctx, location)
	if err != nil {
		return nil, &DataUnavailableError{Dataset: name, Location: location, Err: err}
	}
	records, err := readRecords(data)
	if err != nil {
		return nil, &DataUnavailableError{Dataset: name, Location: location, Err: err}
	}
	if missing := missingColumns(name, records[0]); len(missing) > 0 {
		return nil, &DataUnavailableError{Dataset: name, Location: location, Err: &MissingColumnsError{Columns: missing}}
	}
	return records, nil
}

func (l *Loader) databaseFrames(ctx context.Context) (map[dataset.Name]dataframe.DataFrame, error) {
	source := l.cfg.Datasets.Source
	dsn := l.cfg.Databases.DSN(source)

	reader, err := database.New(l.cfg.Databases, source)
	if err != nil {
		return nil, err
	}
	if err := reader.Connect(dsn); err != nil {
		return nil, &DataUnavailableError{Dataset: dataset.Orders, Location: source, Err: fmt.Errorf("connect: %w", err)}
	}
	defer reader.Close()

	return l.readFrames(ctx, reader, source)
}

// readFrames reads every dataset through reader. A table that is absent or
// lacks required columns is reported as unavailable.
func (l *Loader) readFrames(ctx context.Context, reader database.TableReader, source string) (map[dataset.Name]dataframe.DataFrame, error) {
	frames := make(map[dataset.Name]dataframe.DataFrame, len(dataset.All))
	for _, name := range dataset.All {
		table := Location(l.cfg.Datasets, name)
		location := source + ":" + table

		records, err := reader.ReadTable(ctx, table, dataset.Columns(name))
		if err != nil {
			return nil, &DataUnavailableError{Dataset: name, Location: location, Err: err}
		}
		df, err := toFrame(name, records)
		if err != nil {
			return nil, &DataUnavailableError{Dataset: name, Location: location, Err: err}
		}
		frames[name] = df
	}
	return frames, nil
}

func (l *Loader) reportDropped(name dataset.Name, dropped dataset.Dropped) {
	if dropped.Total() == 0 {
		return
	}
	l.log.Warn("dropped malformed rows",
		zap.String("dataset", string(name)),
		zap.Int("missing_key", dropped.MissingKey),
		zap.Int("bad_price", dropped.BadPrice),
		zap.Int("bad_score", dropped.BadScore),
		zap.Int("out_of_range", dropped.OutOfRange),
	)
}
