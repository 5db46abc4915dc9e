package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/athenaeumhq/athenaeum/internal/backup"
	"github.com/athenaeumhq/athenaeum/internal/config"
)

// runBackup archives the local database (sessions, preferences, theme) and
// optionally the config file. It runs before the app bootstrap so the
// store is not held open while being copied.
func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	out := fs.String("out", "", "archive path (default athenaeum-backup-<date>.tar.gz)")
	configFile := fs.String("config-file", "", "also archive this config file")
	_ = fs.Parse(args)

	v, err := config.Load(os.Getenv("ATHENAEUM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "athenaeum: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Client(v)

	archive := *out
	if archive == "" {
		archive = fmt.Sprintf("athenaeum-backup-%s.tar.gz", time.Now().Format("2006-01-02"))
	}
	cfgPath := *configFile
	if cfgPath == "" {
		cfgPath = v.ConfigFileUsed()
	}

	if err := backup.Backup(context.Background(), cfg.StorePath(), cfgPath, archive); err != nil {
		fmt.Fprintf(os.Stderr, "athenaeum: backup: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Backup written to %s\n", archive)
}

// runRestore extracts a backup archive into the data directory.
func runRestore(args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	force := fs.Bool("force", false, "overwrite existing files")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: athenaeum restore [-force] <archive>")
		os.Exit(2)
	}

	v, err := config.Load(os.Getenv("ATHENAEUM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "athenaeum: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Client(v)

	if err := backup.Restore(context.Background(), fs.Arg(0), cfg.DataDir, *force); err != nil {
		fmt.Fprintf(os.Stderr, "athenaeum: restore: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Restored into %s\n", cfg.DataDir)
}
