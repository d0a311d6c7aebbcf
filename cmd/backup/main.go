package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"memorymaster/internal/config"
	"memorymaster/internal/database"
	"memorymaster/internal/service"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("backup: %v", err)
	}
}

func run(command string, args []string) error {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	svc := service.NewBackupService(db)

	switch command {
	case "export":
		return runExport(svc, args)
	case "import":
		return runImport(svc, db, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runExport(svc *service.BackupService, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "output file (default backup_<timestamp>.json)")
	fs.Parse(args)

	path := *output
	if path == "" {
		path = "backup_" + time.Now().Format("20060102_150405") + ".json"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := svc.Export(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	log.Printf("Wrote %s (%d bytes)", path, info.Size())
	return nil
}

func runImport(svc *service.BackupService, db *database.DB, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	input := fs.String("input", "", "backup file to restore (required)")
	clear := fs.Bool("clear", false, "delete existing rows before restoring")
	fs.Parse(args)

	if *input == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-input is required")
	}
	if _, err := os.Stat(*input); err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}

	if *clear {
		if !confirm("Delete ALL existing rows and restore from backup?") {
			log.Println("Cancelled")
			return nil
		}
		if err := clearTables(db); err != nil {
			return err
		}
	}

	if err := svc.Import(*input); err != nil {
		return err
	}
	log.Printf("Restored %s", *input)
	return nil
}

// confirm asks for a literal yes on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s Type 'yes' to continue: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}

// clearTables empties the backed-up tables, children before parents.
func clearTables(db *database.DB) error {
	for _, table := range []string{"game_records", "player_progress", "players"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		log.Printf("Cleared %s", table)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `MemoryMaster backup tool

Usage:
  backup export [-output file]           write players, game records and
                                         progress to a JSON file
  backup import -input file [-clear]     restore from a JSON file; -clear
                                         empties the tables first and asks
                                         for confirmation

The database is selected by DATABASE_TYPE (sqlite, postgres, mysql) with
DB_PATH or DATABASE_URL, as for the server.`)
}
