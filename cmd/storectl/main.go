// storectl manages a storefront database offline: export, import, stats,
// orphan-image sweep and clear, against the bolt file directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"ShriHariStore/internal/catalog"
	"ShriHariStore/internal/imagestore"
	"ShriHariStore/internal/kvstore"
)

var (
	header = color.New(color.FgCyan, color.Bold)
	okMark = color.New(color.FgGreen)
	errOut = color.New(color.FgRed)
)

func main() {
	dbPath := flag.String("db", "shrihari.db", "path to the storefront bolt database")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(*dbPath, args[0], args[1:]); err != nil {
		errOut.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: storectl [-db path] <command> [args]

commands:
  export [file]   write the catalog as pretty JSON to file (default stdout)
  import <file>   replace the catalog with the products in file
  stats           show catalog and image storage utilization
  sweep           delete image blobs no product references
  clear           empty the catalog (images are kept; use sweep after)
`)
}

func run(dbPath, command string, args []string) error {
	ctx := context.Background()

	kv, err := kvstore.OpenBolt(dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	defer func() { _ = kv.Close() }()

	log := zap.NewNop()

	store, err := catalog.NewStore(ctx, kv, log)
	if err != nil {
		return err
	}
	blobs, err := imagestore.NewBlobStore(ctx, kv, log)
	if err != nil {
		return err
	}

	switch command {
	case "export":
		return runExport(store, args)
	case "import":
		return runImport(ctx, store, args)
	case "stats":
		return runStats(store, blobs)
	case "sweep":
		return runSweep(ctx, store, blobs)
	case "clear":
		return runClear(ctx, store)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runExport(store *catalog.Store, args []string) error {
	data, err := store.Export()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println(data)
		return nil
	}

	if err := os.WriteFile(args[0], []byte(data+"\n"), 0o644); err != nil {
		return err
	}
	okMark.Printf("exported %d products to %s\n", store.Stats().TotalProducts, args[0])
	return nil
}

func runImport(ctx context.Context, store *catalog.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import needs exactly one file argument")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	n, err := store.Import(ctx, string(raw))
	if err != nil {
		return err
	}
	okMark.Printf("imported %d products (previous catalog replaced)\n", n)
	return nil
}

func runStats(store *catalog.Store, blobs *imagestore.BlobStore) error {
	st := store.Stats()
	info := blobs.Info()

	header.Println("catalog")
	fmt.Printf("  products:  %d / %d (%.2f%%)\n", st.TotalProducts, st.MaxProducts, st.PercentUsed)
	fmt.Printf("  remaining: %d slots\n", st.RemainingSlots)
	fmt.Printf("  size:      %d bytes serialized\n", st.StorageUsedBytes)

	header.Println("images")
	fmt.Printf("  blobs:     %d\n", info.Count)
	fmt.Printf("  size:      %.2f MB estimated\n", info.EstimatedSizeMB)
	return nil
}

func runSweep(ctx context.Context, store *catalog.Store, blobs *imagestore.BlobStore) error {
	removed, err := imagestore.SweepOrphans(ctx, blobs, store)
	if err != nil {
		return err
	}
	okMark.Printf("removed %d orphaned image blobs\n", removed)
	return nil
}

func runClear(ctx context.Context, store *catalog.Store) error {
	if err := store.ClearAll(ctx); err != nil {
		return err
	}
	okMark.Println("catalog cleared")
	return nil
}
