package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"marketcore.dev/internal/migrate"
)

const usage = "usage: migrate [-dsn ...] [-migrations dir] [-seeds dir] up|down|seed|status"

func main() {
	log.SetFlags(0)
	var (
		dsn            = flag.String("dsn", os.Getenv("MARKETCORE_PG_DSN"), "PostgreSQL DSN (defaults to MARKETCORE_PG_DSN)")
		migrationsPath = flag.String("migrations", "ops/migrations/sql", "directory with *.up.sql / *.down.sql files")
		seedsPath      = flag.String("seeds", "ops/migrations/seeds", "directory with idempotent seed files")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("MARKETCORE_PG_DSN is required (or pass -dsn)")
	}
	if flag.NArg() != 1 {
		log.Fatal(usage)
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := flag.Arg(0)
	if err := run(ctx, migrate.NewManager(db, *migrationsPath, *seedsPath), cmd); err != nil {
		log.Fatalf("migrate %s: %v", cmd, err)
	}
}

func run(ctx context.Context, mgr *migrate.Manager, cmd string) error {
	switch cmd {
	case "up":
		return mgr.Up(ctx)
	case "down":
		return mgr.Down(ctx)
	case "seed":
		return mgr.Seed(ctx)
	case "status":
		applied, err := mgr.Status(ctx)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Println("no migrations applied")
			return nil
		}
		for _, name := range applied {
			fmt.Println(name)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}
