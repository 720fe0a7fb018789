// Command catalog-check validates catalog files and reports their stock.
//
// Every file is decoded concurrently. With -merge the catalogs are folded
// into one store in argument order, the way an operator would combine a base
// catalog with regional additions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/stockroom/internal/catalog"
	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/store"
)

func main() {
	var (
		currency string
		merge    bool
	)

	flag.StringVar(&currency, "currency", "€", "currency symbol used in product descriptions")
	flag.BoolVar(&merge, "merge", false, "merge all catalogs into one store and report the result")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] catalog.json [catalog.json.gz ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, flag.Args(), currency, merge); err != nil {
		slog.Error("catalog check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("catalog check completed successfully")
}

func run(ctx context.Context, files []string, currency string, merge bool) error {
	stores, err := loadAll(ctx, files)
	if err != nil {
		return err
	}

	for i, s := range stores {
		report(files[i], s, currency)
	}
	if !merge || len(stores) < 2 {
		return nil
	}

	merged := stores[0]
	for i, s := range stores[1:] {
		if merged, err = merged.Merge(s); err != nil {
			return errors.Wrapf(err, "merge %s", files[i+1])
		}
	}
	report("merged", merged, currency)
	return nil
}

func loadAll(ctx context.Context, files []string) ([]*store.Store, error) {
	stores := make([]*store.Store, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			products, err := catalog.Load(path)
			if err != nil {
				return err
			}
			s, err := store.New(products...)
			if err != nil {
				return errors.Wrapf(err, "build store from %s", path)
			}
			stores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stores, nil
}

func report(source string, s *store.Store, currency string) {
	active := s.Snapshot()
	slog.Info("catalog",
		slog.String("source", source),
		slog.Int("products", len(s.All())),
		slog.Int("active", len(active)),
		slog.Int("total_quantity", s.TotalQuantity()),
	)
	for _, p := range active {
		slog.Info(product.Describe(p, currency), slog.String("source", source))
	}
}
