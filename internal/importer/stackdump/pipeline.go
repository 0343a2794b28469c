package stackdump

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"dumploader/internal/config"
	"dumploader/internal/db"
	"dumploader/internal/domain"
)

const (
	// DefaultChannelCap bounds the record channel when the configuration
	// leaves it unset. All five entities share the one channel.
	DefaultChannelCap = 100_000

	readBufferBytes = 32 << 20
)

// SendPolicy controls what a reader does when the record channel is full.
type SendPolicy int

const (
	// DropNewest discards the record instead of blocking the reader.
	// Memory stays bounded, but sustained overload loses rows; the drop
	// counter in the summary makes the loss visible.
	DropNewest SendPolicy = iota
	// Block suspends the reader until the writer catches up. Lossless,
	// at the cost of readers stalling behind a slow store.
	Block
)

// decodeFunc turns one row's attribute map into a record, or reports
// ok=false to skip the row.
type decodeFunc func(attrs map[string]string) (domain.Record, bool)

// source binds a dump file to its entity decoder.
type source struct {
	entity domain.Entity
	decode decodeFunc
}

// allSources lists the five dump files in the order the archives ship
// them. Readers run concurrently, so the order carries no semantics
// beyond deterministic selection.
var allSources = []source{
	{domain.EntityUsers, decodeUser},
	{domain.EntityTags, decodeTag},
	{domain.EntityPosts, decodePost},
	{domain.EntityComments, decodeComment},
	{domain.EntityVotes, decodeVote},
}

// Pipeline owns the record channel shared by all stream readers and the
// single batching writer. Counters are atomic; readers update them
// concurrently.
type Pipeline struct {
	records    chan domain.Record
	policy     SendPolicy
	writerDone chan struct{}

	decoded atomic.Int64 // records enqueued (or offered) after a successful decode
	skipped atomic.Int64 // rows discarded at decode time
	dropped atomic.Int64 // records lost to a full channel under DropNewest
}

// NewPipeline builds a pipeline with the given channel capacity and send
// policy. Capacity <= 0 falls back to DefaultChannelCap.
func NewPipeline(channelCap int, policy SendPolicy) *Pipeline {
	if channelCap <= 0 {
		channelCap = DefaultChannelCap
	}
	return &Pipeline{
		records:    make(chan domain.Record, channelCap),
		policy:     policy,
		writerDone: make(chan struct{}),
	}
}

// offer hands a decoded record to the channel according to the send
// policy. Under DropNewest the send never suspends the reader: a full
// channel discards the record and bumps the drop counter. Under Block the
// send waits, giving up only when the writer has already exited or the
// context is canceled.
func (p *Pipeline) offer(ctx context.Context, rec domain.Record) {
	p.decoded.Add(1)
	switch p.policy {
	case Block:
		select {
		case p.records <- rec:
		case <-p.writerDone:
			p.dropped.Add(1)
		case <-ctx.Done():
			p.dropped.Add(1)
		}
	default:
		select {
		case p.records <- rec:
		default:
			p.dropped.Add(1)
		}
	}
}

// readFile streams one dump file into the channel. A missing file is
// reported and treated as zero records; any other open or read error is
// returned.
func (p *Pipeline) readFile(ctx context.Context, path string, decode decodeFunc) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("stackdump: file not found, skipping: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("stackdump: open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, readBufferBytes)
	rerr := readRows(br, func(attrs map[string]string) {
		rec, ok := decode(attrs)
		if !ok {
			p.skipped.Add(1)
			return
		}
		p.offer(ctx, rec)
	})
	if rerr != nil {
		return fmt.Errorf("stackdump: read %s: %w", path, rerr)
	}
	return nil
}

// selectSources filters allSources by the configured entity names; an
// empty restriction selects everything. Unknown names are reported and
// ignored rather than failing the run.
func selectSources(entities []string) []source {
	if len(entities) == 0 {
		return allSources
	}
	want := make(map[string]bool, len(entities))
	for _, e := range entities {
		want[e] = true
	}
	var out []source
	for _, s := range allSources {
		if want[string(s.entity)] {
			out = append(out, s)
			delete(want, string(s.entity))
		}
	}
	for e := range want {
		log.Printf("stackdump: unknown entity %q ignored", e)
	}
	return out
}

// Import runs the full ingestion: one streaming reader per selected dump
// file, all feeding the bounded record channel, drained by one batching
// writer. It returns after both sides have finished; any store error is
// fatal and surfaces here.
func Import(ctx context.Context, cfg *config.Config, factory db.DBFactory) error {
	start := time.Now()

	dbh, err := factory(ctx)
	if err != nil {
		return fmt.Errorf("stackdump: open db: %w", err)
	}
	defer dbh.Close(ctx)

	if cfg.CreateSchema {
		if err := ensureSchema(ctx, dbh); err != nil {
			return err
		}
	}

	policy := DropNewest
	if cfg.SendPolicy == config.SendBlock {
		policy = Block
	}
	p := NewPipeline(cfg.ChannelCap, policy)
	w := newBatchWriter(dbh, cfg.BatchSize)

	writerErr := make(chan error, 1)
	go func() {
		writerErr <- w.run(ctx, p.records)
		close(p.writerDone)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range selectSources(cfg.Entities) {
		src := src
		path := filepath.Join(cfg.InputDir, string(src.entity)+".xml")
		g.Go(func() error { return p.readFile(gctx, path, src.decode) })
	}
	readErr := g.Wait()

	// All producers finished: closing the channel triggers the writer's
	// final drain.
	close(p.records)
	werr := <-writerErr

	if werr != nil {
		return werr
	}
	if readErr != nil {
		return readErr
	}

	w.logSummary()
	dur := time.Since(start)
	log.Printf("stackdump: decoded=%d skipped=%d dropped=%d duration=%s rate=%.0f/s",
		p.decoded.Load(), p.skipped.Load(), p.dropped.Load(),
		dur.Round(time.Millisecond), float64(p.decoded.Load())/dur.Seconds(),
	)
	return nil
}
