// Command importer wires configuration, the database adapter, and the dump
// import pipeline. It serves as a thin composition layer with minimal logic
// and clear seams to enable hermetic tests: DB constructor and import
// entrypoint are injected via Deps.
//
// Design goals:
//   - Keep main() tiny and delegate to run() for testability.
//   - Avoid hidden globals and make behavior obvious from Deps.
//   - Prefer explicit, readable control flow over cleverness.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"dumploader/internal/config"
	"dumploader/internal/db"
	"dumploader/internal/importer/stackdump"
)

// Deps holds injectable dependencies so run() is fully testable. Each field
// represents a boundary that would otherwise be hard-coded in main(). In
// tests, we pass fakes here; in production, defaultDeps() provides real funcs.
type Deps struct {
	NewPgDB func(ctx context.Context, dsn string) (db.DB, error)
	Import  func(ctx context.Context, cfg *config.Config, factory db.DBFactory) error
}

// defaultDeps wires production implementations. Tests should inject fakes.
func defaultDeps() Deps {
	return Deps{
		NewPgDB: db.NewPgDB,
		Import:  stackdump.Import,
	}
}

// run validates the config, builds the DB factory, and executes the import.
// On success it logs the total elapsed wall-clock time.
func run(ctx context.Context, cfg *config.Config, deps Deps) error {
	switch cfg.SendPolicy {
	case config.SendDrop, config.SendBlock:
	default:
		return fmt.Errorf("unsupported -send_policy=%q (want %q or %q)", cfg.SendPolicy, config.SendDrop, config.SendBlock)
	}

	dsn := cfg.PgDSN()
	factory := func(ctx context.Context) (db.DB, error) { return deps.NewPgDB(ctx, dsn) }

	start := time.Now()
	if err := deps.Import(ctx, cfg, factory); err != nil {
		return fmt.Errorf("dump import failed: %w", err)
	}
	log.Printf("elapsed: %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// main is intentionally tiny. It loads config, builds real deps, and runs.
// Any error is fatal; we log once and exit non-zero.
func main() {
	cfg := config.Load()
	if err := run(context.Background(), cfg, defaultDeps()); err != nil {
		log.Fatal(err)
	}
}
