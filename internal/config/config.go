// Package config centralizes application configuration. It follows a
// "clean" configuration pattern where all tunables live outside the
// code and are sourced from command-line flags with environment-variable
// fallbacks (12-factor friendly). Flags are defined first so that
// `-help` shows all available knobs and their defaults.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-batch_size=4"})
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// Send policies for the record channel.
const (
	SendDrop  = "drop"  // full channel discards the newest record
	SendBlock = "block" // full channel blocks the producer
)

// Config holds all process configuration derived from flags and
// environment variables. All fields are plain values so the struct
// can be safely copied and used across goroutines after construction.
type Config struct {
	// IO controls input file locations.
	InputDir string   // Directory containing the dump XML files (Users.xml, ...).
	Entities []string // Dump files to import (by base name); empty means all five.

	// DB describes the target Postgres database. DSN is optional; when
	// empty it is assembled from the discrete parts below.
	DSN        string // Full DSN/connection URL.
	DBUser     string // Database username.
	DBPassword string // Database password.
	DBHost     string // Database host.
	DBPort     string // Database port.
	DBName     string // Database name.

	// Import tunables control ingestion throughput and memory.
	BatchSize  int    // Records per entity buffer before a flush transaction.
	ChannelCap int    // Record channel capacity, shared across entities.
	SendPolicy string // "drop" (lossy, never blocks readers) or "block".

	// Misc toggles.
	CreateSchema bool // Create enum types and tables before importing.
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag
// to an environment-variable fallback via getenv, and then parsing args.
// This is the most testable entry point: callers supply a private FlagSet,
// a getenv func (often backed by a map), and a synthetic arg slice.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
//
// The returned Config is fully populated; no further mutation occurs.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	// Inline helpers use the provided getenv to avoid touching process env.
	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		if v := strings.ToLower(getenv(k)); v != "" {
			switch v {
			case "1", "true", "yes", "on":
				return true
			case "0", "false", "no", "off":
				return false
			}
		}
		return d
	}

	// IO paths
	fs.StringVar(&cfg.InputDir, "input_dir", envOrDefaultFn("INPUT_DIR", "."), "Directory containing the dump XML files")
	var entities string
	fs.StringVar(&entities, "entities", getenv("ENTITIES"), "Comma-separated dump files to import (e.g. Users,Posts); empty imports all")

	// DB connectivity
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full Postgres DSN (overrides discrete db_* flags)")
	fs.StringVar(&cfg.DBUser, "db_user", envOrDefaultFn("DB_USER", "user"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", envOrDefaultFn("DB_PASSWORD", "password"), "DB password")
	fs.StringVar(&cfg.DBHost, "db_host", envOrDefaultFn("DB_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", envOrDefaultFn("DB_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBName, "db_name", envOrDefaultFn("DB_NAME", "testdb"), "DB name")

	// Throughput & toggles
	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOrDefaultFn("BATCH_SIZE", 500), "Records per entity buffer before a flush transaction")
	fs.IntVar(&cfg.ChannelCap, "channel_cap", intEnvOrDefaultFn("CHANNEL_CAP", 100_000), "Record channel capacity")
	fs.StringVar(&cfg.SendPolicy, "send_policy", envOrDefaultFn("SEND_POLICY", SendDrop), "Full-channel policy: 'drop' discards the newest record, 'block' applies backpressure")
	fs.BoolVar(&cfg.CreateSchema, "create_schema", boolEnvOrDefaultFn("CREATE_SCHEMA", true), "Create enum types and tables before importing")

	// Parse the provided args (nil means no extra args).
	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)

	cfg.Entities = splitEntities(entities)
	return cfg
}

// Load is the production entry point. It wires the loader to the process
// flag set (flag.CommandLine), reads environment variables via os.Getenv,
// and parses os.Args[1:] as the CLI arguments.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// PgDSN returns the configured DSN, assembling one from the discrete parts
// when no full DSN was provided.
func (c *Config) PgDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName
}

// splitEntities parses the -entities value, trimming whitespace and
// dropping empty segments. An empty input yields nil (import everything).
func splitEntities(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
