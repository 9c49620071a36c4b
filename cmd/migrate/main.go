package main

import (
	"context"
	"log"
	"os"

	"roster/adapters/kv"
	"roster/adapters/postgres"
	"roster/internal"
	"roster/internal/migration"
)

// Creates the Postgres schema and optionally copies every snapshot slot
// from a Badger directory into it.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [badger_dir]")
	}

	databaseURL := os.Args[1]
	ctx := context.Background()

	db, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema version %s applied", runner.Version())

	if len(os.Args) < 3 {
		return
	}

	badgerDir := os.Args[2]
	source, err := kv.OpenBadger(badgerDir, internal.DefaultLogger)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", badgerDir, err)
	}
	defer source.Close()

	copied, err := copySlots(ctx, source, postgres.NewSnapshotRepository(db))
	if err != nil {
		log.Fatalf("Copy failed after %d slots: %v", copied, err)
	}
	log.Printf("Copied %d snapshot slots from %s", copied, badgerDir)
}

type slotSource interface {
	Slots() ([]string, error)
	Load(ctx context.Context, slot string) ([]byte, bool, error)
}

type slotSink interface {
	Save(ctx context.Context, slot string, payload []byte) error
}

func copySlots(ctx context.Context, src slotSource, dst slotSink) (int, error) {
	slots, err := src.Slots()
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, slot := range slots {
		payload, ok, err := src.Load(ctx, slot)
		if err != nil {
			return copied, err
		}
		if !ok {
			continue
		}
		if err := dst.Save(ctx, slot, payload); err != nil {
			return copied, err
		}
		log.Printf("Copied slot %q (%d bytes)", slot, len(payload))
		copied++
	}
	return copied, nil
}
