package main

import (
	"fmt"
	"os"

	"ilgi/internal/config"
	"ilgi/internal/db"

	"github.com/alecthomas/kong"
)

type runContext struct {
	migrator *db.Migrator
}

type upCmd struct{}

func (c *upCmd) Run(ctx *runContext) error {
	if err := ctx.migrator.Up(); err != nil {
		return err
	}
	return printVersion(ctx)
}

type downCmd struct {
	Steps int `arg:"" optional:"" default:"1" help:"Number of migrations to roll back."`
}

func (c *downCmd) Run(ctx *runContext) error {
	if err := ctx.migrator.Down(c.Steps); err != nil {
		return err
	}
	return printVersion(ctx)
}

type versionCmd struct{}

func (c *versionCmd) Run(ctx *runContext) error {
	return printVersion(ctx)
}

func printVersion(ctx *runContext) error {
	version, dirty, err := ctx.migrator.Version()
	if err != nil {
		return err
	}
	if dirty {
		fmt.Printf("schema version %d (dirty)\n", version)
		return nil
	}
	fmt.Printf("schema version %d\n", version)
	return nil
}

var cli struct {
	DatabaseURL string `help:"Postgres connection string." env:"DATABASE_URL"`

	Up      upCmd      `cmd:"" help:"Apply pending migrations." default:"1"`
	Down    downCmd    `cmd:"" help:"Roll back migrations."`
	Version versionCmd `cmd:"" help:"Print the current schema version."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("migrate"),
		kong.Description("Manage the ilgi database schema."),
		kong.UsageOnError(),
	)

	databaseURL := cli.DatabaseURL
	if databaseURL == "" {
		databaseURL = config.Load().DatabaseURL
	}
	database, err := db.Connect(databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect database: %v\n", err)
		os.Exit(1)
	}
	migrator, err := db.NewMigrator(database)
	if err != nil {
		database.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = kctx.Run(&runContext{migrator: migrator})
	if closeErr := migrator.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
