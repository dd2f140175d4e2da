//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/config"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/db"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/logging"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/randstream"
	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/warehouse"
)

// Generator orchestrates one full dataset generation run: stage schema,
// dimensions, facts, derived aggregates, swap, indexes, metadata.
type Generator struct {
	pool *pgxpool.Pool
	cfg  config.SeedConfig
}

// New creates a Generator.
func New(pool *pgxpool.Pool, cfg config.SeedConfig) *Generator {
	return &Generator{pool: pool, cfg: cfg}
}

// Run executes a generation run. Everything is written to stage tables;
// the previous live dataset survives untouched unless the run reaches the
// final swap, so a failed or cancelled run never leaves a partial dataset
// visible.
func (g *Generator) Run(ctx context.Context) (db.RunMetadata, error) {
	start := g.cfg.ResolveStartDate(time.Now())

	logging.Info().
		Uint64("seed", g.cfg.RandomSeed).
		Str("start_date", start.Format("2006-01-02")).
		Int("horizon_days", g.cfg.DateRangeDays).
		Int("num_sales", g.cfg.NumSales).
		Msg("Starting generation run")

	root := randstream.New(g.cfg.RandomSeed)
	ds := BuildDataset(root, g.cfg, start)

	if err := warehouse.CreateStageSchema(ctx, g.pool); err != nil {
		return db.RunMetadata{}, err
	}

	if err := g.writeDimensions(ctx, ds); err != nil {
		return db.RunMetadata{}, err
	}

	sp := NewSampler(ds, g.cfg)
	if err := g.writeFacts(ctx, sp, root); err != nil {
		return db.RunMetadata{}, err
	}

	if err := warehouse.UpdateCustomerAggregates(ctx, g.pool); err != nil {
		return db.RunMetadata{}, err
	}
	if err := warehouse.SwapStage(ctx, g.pool); err != nil {
		return db.RunMetadata{}, err
	}
	if err := warehouse.CreateIndexes(ctx, g.pool); err != nil {
		return db.RunMetadata{}, err
	}

	md := db.RunMetadata{
		RunID:        uuid.NewString(),
		RandomSeed:   g.cfg.RandomSeed,
		NumStores:    g.cfg.NumStores,
		NumProducts:  g.cfg.NumProducts,
		NumCustomers: g.cfg.NumCustomers,
		NumSales:     g.cfg.NumSales,
		StartDate:    start.Format("2006-01-02"),
		HorizonDays:  g.cfg.DateRangeDays,
	}
	if err := db.SaveRunMetadata(ctx, g.pool, md); err != nil {
		return db.RunMetadata{}, err
	}

	logging.Info().Str("run_id", md.RunID).Msg("Generation run complete")
	return md, nil
}

func (g *Generator) writeDimensions(ctx context.Context, ds *Dataset) error {
	dates := newBatchWriter(g.pool, warehouse.StageName("dim_date"), dateColumns, g.cfg.BatchSize, int64(len(ds.Dates)))
	for _, r := range ds.Dates {
		if err := dates.add(ctx, dateValues(r)); err != nil {
			return err
		}
	}
	if err := dates.done(ctx); err != nil {
		return err
	}

	stores := newBatchWriter(g.pool, warehouse.StageName("dim_store"), storeColumns, g.cfg.BatchSize, int64(len(ds.Stores)))
	for _, r := range ds.Stores {
		if err := stores.add(ctx, storeValues(r)); err != nil {
			return err
		}
	}
	if err := stores.done(ctx); err != nil {
		return err
	}

	products := newBatchWriter(g.pool, warehouse.StageName("dim_product"), productColumns, g.cfg.BatchSize, int64(len(ds.Products)))
	for _, r := range ds.Products {
		if err := products.add(ctx, productValues(r)); err != nil {
			return err
		}
	}
	if err := products.done(ctx); err != nil {
		return err
	}

	customers := newBatchWriter(g.pool, warehouse.StageName("dim_customer"), customerColumns, g.cfg.BatchSize, int64(len(ds.Customers)))
	for _, r := range ds.Customers {
		if err := customers.add(ctx, customerValues(r)); err != nil {
			return err
		}
	}
	return customers.done(ctx)
}

// PartitionRange returns the half-open fact index range [from, to) owned
// by a partition. Ranges are contiguous and cover [0, total) exactly.
func PartitionRange(total, partitions, p int) (int, int) {
	per := total / partitions
	rem := total % partitions

	from := p*per + min(p, rem)
	size := per
	if p < rem {
		size++
	}
	return from, from + size
}

// GenerateFacts draws the fact rows of one partition. Sale ids are the
// global fact index plus one, so reassembled partitions form a dense
// sequence regardless of partition count.
func GenerateFacts(sp *Sampler, s *randstream.Stream, from, to int) ([]SaleRow, error) {
	rows := make([]SaleRow, 0, to-from)
	for i := from; i < to; i++ {
		row, err := sp.Next(s, int64(i)+1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeFacts generates and writes the fact stream. All modes derive
// per-partition sub-streams from the root, so the single-partition
// sequential and pipelined paths produce the identical dataset.
func (g *Generator) writeFacts(ctx context.Context, sp *Sampler, root *randstream.Stream) error {
	if g.cfg.Partitions > 1 {
		return g.writeFactsPartitioned(ctx, sp, root)
	}
	if g.cfg.Pipeline {
		return g.writeFactsPipelined(ctx, sp, root)
	}
	return g.writeFactsSequential(ctx, sp, root)
}

func (g *Generator) writeFactsSequential(ctx context.Context, sp *Sampler, root *randstream.Stream) error {
	s := root.Derive(0)
	writer := newBatchWriter(g.pool, warehouse.StageName("fact_sales"), saleColumns, g.cfg.BatchSize, int64(g.cfg.NumSales))

	for i := 0; i < g.cfg.NumSales; i++ {
		if i%g.cfg.BatchSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row, err := sp.Next(s, int64(i)+1)
		if err != nil {
			return err
		}
		if err := writer.add(ctx, saleValues(row)); err != nil {
			return err
		}
	}
	return writer.done(ctx)
}

// writeFactsPipelined overlaps sampling with batch inserts through a
// bounded queue. The producer blocks when the writer falls behind, so at
// most QueueDepth batches are in flight.
func (g *Generator) writeFactsPipelined(ctx context.Context, sp *Sampler, root *randstream.Stream) error {
	batches := make(chan []string, g.cfg.QueueDepth)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(batches)
		s := root.Derive(0)
		batch := make([]string, 0, g.cfg.BatchSize)

		for i := 0; i < g.cfg.NumSales; i++ {
			row, err := sp.Next(s, int64(i)+1)
			if err != nil {
				return err
			}
			batch = append(batch, saleValues(row))
			if len(batch) >= g.cfg.BatchSize {
				select {
				case batches <- batch:
				case <-egCtx.Done():
					return egCtx.Err()
				}
				batch = make([]string, 0, g.cfg.BatchSize)
			}
		}
		if len(batch) > 0 {
			select {
			case batches <- batch:
			case <-egCtx.Done():
				return egCtx.Err()
			}
		}
		return nil
	})

	eg.Go(func() error {
		table := warehouse.StageName("fact_sales")
		progress := NewProgressReporter(table, int64(g.cfg.NumSales), int64(g.cfg.NumSales/10))
		for batch := range batches {
			sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s", table, saleColumns, strings.Join(batch, ", "))
			if _, err := g.pool.Exec(egCtx, sql); err != nil {
				return fmt.Errorf("failed to insert into %s: %w", table, err)
			}
			progress.Update(int64(len(batch)))
		}
		progress.Done()
		return nil
	})

	return eg.Wait()
}

// writeFactsPartitioned generates partitions concurrently, each from its
// own derived sub-stream, then writes them back in partition order so the
// published table is identical for any worker scheduling.
func (g *Generator) writeFactsPartitioned(ctx context.Context, sp *Sampler, root *randstream.Stream) error {
	parts := make([][]SaleRow, g.cfg.Partitions)

	eg, egCtx := errgroup.WithContext(ctx)
	for p := 0; p < g.cfg.Partitions; p++ {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			from, to := PartitionRange(g.cfg.NumSales, g.cfg.Partitions, p)
			rows, err := GenerateFacts(sp, root.Derive(p), from, to)
			if err != nil {
				return fmt.Errorf("partition %d: %w", p, err)
			}
			parts[p] = rows
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	writer := newBatchWriter(g.pool, warehouse.StageName("fact_sales"), saleColumns, g.cfg.BatchSize, int64(g.cfg.NumSales))
	for _, rows := range parts {
		for _, row := range rows {
			if err := writer.add(ctx, saleValues(row)); err != nil {
				return err
			}
		}
	}
	return writer.done(ctx)
}
