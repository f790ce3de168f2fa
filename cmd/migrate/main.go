package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "up|down|status|version|create|validate|automigrate")
	dir := flag.String("dir", "", "migrations directory (default: the set embedded in this binary; create writes to "+migrate.DefaultDir+")")
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	// create and validate work on files only
	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		target := *dir
		if target == "" {
			target = migrate.DefaultDir
		}
		path, err := migrate.Create(target, *name, time.Now())
		if err != nil {
			fail("create migration: %v", err)
		}
		fmt.Println("created", path)
		return
	case "validate":
		files, err := migrate.Files(*dir)
		if err == nil {
			err = migrate.Validate(files)
		}
		if err != nil {
			fail("validation failed: %v", err)
		}
		fmt.Println("migrations valid")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "cmd": *cmd})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if *cmd == "automigrate" || cfg.DB.IsSQLite() {
		if *cmd != "up" && *cmd != "automigrate" {
			fail("-cmd=%s is not supported for %s databases", *cmd, config.DBDriverSQLite)
		}
		if err := migrate.AutoMigrateModels(ctx, dbClient); err != nil {
			fail("automigrate: %v", err)
		}
		logg.Info(ctx, "schema migrated from models")
		return
	}

	if err := runGoose(ctx, dbClient, logg, *cmd, *dir, *version); err != nil {
		logg.Error(ctx, "migration command failed", err)
		os.Exit(1)
	}
}

func runGoose(ctx context.Context, dbClient *db.Client, logg *logger.Logger, cmd, dir, version string) error {
	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return err
	}
	files, err := migrate.Files(dir)
	if err != nil {
		return err
	}
	runner, err := migrate.NewRunner(sqlDB, files, logg)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		return runner.Up(ctx)
	case "down":
		return runner.Down(ctx)
	case "version":
		if version == "" {
			return fmt.Errorf("missing -version")
		}
		return runner.To(ctx, version)
	case "status":
		rows, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tAPPLIED AT\tFILE")
		for _, row := range rows {
			applied := "pending"
			if row.Applied {
				applied = row.AppliedAt
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", row.Version, applied, row.File)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown -cmd %q", cmd)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
