// Package dataset owns the order log: locating and parsing the CSV file,
// synthesizing it when absent, and deriving the computed columns.
package dataset

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"shopdash/internal/config"
	"shopdash/internal/errors"
	"shopdash/internal/models"
)

const maxParsers = 10

// Header is the exact column set of the dataset file, in order. A file
// with missing, extra, or reordered columns is rejected.
var Header = []string{
	"order_id", "user_id", "product_id", "product_name", "category",
	"price", "quantity", "order_date", "rating", "is_repeating_customer",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Provider loads the order dataset once per process lifetime and caches
// the preprocessed table. It is an explicit session-scoped cache, not a
// package-level singleton: independent sessions get independent providers.
type Provider struct {
	dir      string
	filename string
	rows     int
	seed     uint64
	logger   *slog.Logger

	mu     sync.Mutex
	loaded bool
	orders []models.Order
}

func NewProvider(cfg config.DatasetConfig, logger *slog.Logger) *Provider {
	return &Provider{
		dir:      cfg.Dir,
		filename: cfg.Filename,
		rows:     cfg.Rows,
		seed:     cfg.Seed,
		logger:   logger,
	}
}

// Orders returns the preprocessed order table. The expensive path (file
// probing, parsing or generation) runs at most once; later calls return
// the cached table. The cache only invalidates with the process; there is
// no file-change detection.
func (p *Provider) Orders(ctx context.Context) ([]models.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.orders, nil
	}

	start := time.Now()
	orders, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	p.orders = Derive(orders)
	p.loaded = true

	p.logger.Info("dataset ready",
		"rows", len(p.orders),
		"duration", time.Since(start),
	)
	return p.orders, nil
}

func (p *Provider) load(ctx context.Context) ([]models.Order, error) {
	for _, path := range p.candidates() {
		if _, err := os.Stat(path); err == nil {
			p.logger.Info("loading dataset file", "path", path)
			return p.parseFile(ctx, path)
		}
	}

	p.logger.Info("dataset file not found, generating",
		"rows", p.rows,
		"seed", p.seed,
	)
	return p.generate(ctx)
}

// Seed makes sure the dataset file exists on disk, generating it when
// absent, and reports the path used. It does not populate the cache.
func (p *Provider) Seed(ctx context.Context) (path string, created bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, path := range p.candidates() {
		if _, err := os.Stat(path); err == nil {
			return path, false, nil
		}
	}

	if _, err := p.generate(ctx); err != nil {
		return "", false, err
	}
	return filepath.Join(p.dir, p.filename), true, nil
}

// Candidate locations in priority order: the data directory, then the
// working directory.
func (p *Provider) candidates() []string {
	return []string{
		filepath.Join(p.dir, p.filename),
		p.filename,
	}
}

func (p *Provider) parseFile(ctx context.Context, path string) ([]models.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.DataLoadWrap(err, fmt.Sprintf("open dataset file %s", path))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	header, err := r.Read()
	if err != nil {
		return nil, errors.DataLoadWrap(err, "read dataset header")
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, errors.DataLoad(fmt.Sprintf("unexpected column %q at position %d, want %q", header[i], i, col))
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.DataLoadWrap(err, "read dataset rows")
	}
	if len(records) == 0 {
		return nil, errors.DataLoad(fmt.Sprintf("dataset file %s has no rows", path))
	}

	// Parse rows in a bounded pool, writing by index so the table keeps
	// the file's row order.
	orders := make([]models.Order, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParsers)

	for i, record := range records {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			o, err := parseOrder(record)
			if err != nil {
				return errors.DataLoadWrap(err, fmt.Sprintf("row %d of %s", i+2, path))
			}
			orders[i] = o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return orders, nil
}

func parseOrder(record []string) (models.Order, error) {
	orderID, err := strconv.Atoi(record[0])
	if err != nil {
		return models.Order{}, fmt.Errorf("order_id: %w", err)
	}
	userID, err := strconv.Atoi(record[1])
	if err != nil {
		return models.Order{}, fmt.Errorf("user_id: %w", err)
	}
	productID, err := strconv.Atoi(record[2])
	if err != nil {
		return models.Order{}, fmt.Errorf("product_id: %w", err)
	}
	price, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return models.Order{}, fmt.Errorf("price: %w", err)
	}
	quantity, err := strconv.Atoi(record[6])
	if err != nil {
		return models.Order{}, fmt.Errorf("quantity: %w", err)
	}
	orderDate, err := parseTimestamp(record[7])
	if err != nil {
		return models.Order{}, fmt.Errorf("order_date: %w", err)
	}
	rating, err := strconv.Atoi(record[8])
	if err != nil {
		return models.Order{}, fmt.Errorf("rating: %w", err)
	}
	repeating, err := strconv.ParseBool(record[9])
	if err != nil {
		return models.Order{}, fmt.Errorf("is_repeating_customer: %w", err)
	}

	if price <= 0 {
		return models.Order{}, fmt.Errorf("price must be > 0, got %v", price)
	}
	if quantity < 1 {
		return models.Order{}, fmt.Errorf("quantity must be >= 1, got %d", quantity)
	}

	return models.Order{
		OrderID:             orderID,
		UserID:              userID,
		ProductID:           productID,
		ProductName:         record[3],
		Category:            record[4],
		Price:               price,
		Quantity:            quantity,
		OrderDate:           orderDate,
		Rating:              rating,
		IsRepeatingCustomer: repeating,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// generate synthesizes the dataset, persists it for future runs, and
// returns it. The rows are written to a temp file first and linked into
// place once complete, so the dataset never appears at its final path
// half-written. The link is the atomic create-if-absent: a loser of a
// concurrent first load gets ErrExist and reads the winner's fully
// written file instead.
func (p *Provider) generate(ctx context.Context) ([]models.Order, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, errors.DataLoadWrap(err, fmt.Sprintf("create data directory %s", p.dir))
	}

	orders := Synthesize(p.rows, p.seed)
	target := filepath.Join(p.dir, p.filename)

	tmp, err := os.CreateTemp(p.dir, p.filename+".*")
	if err != nil {
		return nil, errors.DataLoadWrap(err, fmt.Sprintf("create temp dataset file in %s", p.dir))
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, orders); err != nil {
		tmp.Close()
		return nil, errors.DataLoadWrap(err, fmt.Sprintf("write dataset file %s", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.DataLoadWrap(err, fmt.Sprintf("close dataset file %s", tmp.Name()))
	}

	if err := os.Link(tmp.Name(), target); err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			return p.parseFile(ctx, target)
		}
		return nil, errors.DataLoadWrap(err, fmt.Sprintf("create dataset file %s", target))
	}

	p.logger.Info("dataset file written", "path", target, "rows", len(orders))
	return orders, nil
}

// writeCSV writes the raw columns only, without a row index column.
func writeCSV(f *os.File, orders []models.Order) error {
	w := csv.NewWriter(f)

	if err := w.Write(Header); err != nil {
		return err
	}
	for _, o := range orders {
		record := []string{
			strconv.Itoa(o.OrderID),
			strconv.Itoa(o.UserID),
			strconv.Itoa(o.ProductID),
			o.ProductName,
			o.Category,
			strconv.FormatFloat(o.Price, 'f', -1, 64),
			strconv.Itoa(o.Quantity),
			o.OrderDate.UTC().Format("2006-01-02 15:04:05"),
			strconv.Itoa(o.Rating),
			strconv.FormatBool(o.IsRepeatingCustomer),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
