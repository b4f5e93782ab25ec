package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/braincreator/flow-masters-access/internal/storage/postgres"
)

type catalogJSON struct {
	Courses  []courseJSON  `json:"courses"`
	Products []productJSON `json:"products"`
}

type courseJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type productJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	CourseID string          `json:"course_id"`
	Access   *struct {
		Type     string `json:"type"`
		Duration int    `json:"duration"`
		Unit     string `json:"unit"`
	} `json:"access"`
}

const upsertCourseSQL = `
INSERT INTO courses (id, title, slug)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, slug = EXCLUDED.slug
`

const upsertProductSQL = `
INSERT INTO products (id, name, price, course_id, access_type, access_duration, access_unit)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, 0), NULLIF($7, ''))
ON CONFLICT (id) DO UPDATE SET
    name            = EXCLUDED.name,
    price           = EXCLUDED.price,
    course_id       = EXCLUDED.course_id,
    access_type     = EXCLUDED.access_type,
    access_duration = EXCLUDED.access_duration,
    access_unit     = EXCLUDED.access_unit
`

func main() {
	var (
		databaseURL string
		catalogFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file (plain or .gz)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	catalog, err := readCatalog(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("upserting courses", slog.Int("count", len(catalog.Courses)))

	for _, c := range catalog.Courses {
		if _, err := pool.Exec(ctx, upsertCourseSQL, c.ID, c.Title, c.Slug); err != nil {
			return errors.Wrapf(err, "upsert course %s", c.ID)
		}
		slog.Info("upserted course", slog.String("id", c.ID), slog.String("slug", c.Slug))
	}

	slog.Info("upserting products", slog.Int("count", len(catalog.Products)))

	for _, p := range catalog.Products {
		var (
			accessType string
			duration   int
			unit       string
		)
		if p.Access != nil {
			accessType = p.Access.Type
			duration = p.Access.Duration
			unit = p.Access.Unit
		}
		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Price, p.CourseID, accessType, duration, unit,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

// readCatalog loads a catalog JSON file, transparently decompressing .gz exports.
func readCatalog(path string) (*catalogJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	var catalog catalogJSON
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, errors.Wrapf(err, "parse catalog JSON")
	}
	return &catalog, nil
}
