package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/api"
	"github.com/bancadelta/f24-reconciler/internal/config"
	"github.com/bancadelta/f24-reconciler/internal/extractor"
	"github.com/bancadelta/f24-reconciler/internal/ledger"
	"github.com/bancadelta/f24-reconciler/internal/parser"
	"github.com/bancadelta/f24-reconciler/internal/processor"
	"github.com/bancadelta/f24-reconciler/internal/reconcile"
	"github.com/bancadelta/f24-reconciler/internal/repository"
	"github.com/bancadelta/f24-reconciler/internal/writer"
)

const version = "1.0.0"

func main() {
	tabulatoFlag := flag.String("tabulato", "", "Path to the tabulato TXT produced by the batch procedure")
	folderFlag := flag.String("pdf-folder", "", "Folder containing the F24 slip PDFs")
	outputFlag := flag.String("output", "", "Output file path for the report (optional)")
	formatFlag := flag.String("format", "console", "Output format: console, json, csv")
	dpiFlag := flag.Int("dpi", 0, "Rasterization DPI for OCR (default from config)")
	dbFlag := flag.String("db", "", "SQLite database path for the run audit store (optional)")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of a one-shot reconciliation")
	addrFlag := flag.String("addr", ":8080", "Listen address for -serve mode")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `F24 Paper Slip Reconciler

Compares F24 slip PDFs (scanned or native) against the tabulato TXT of the
back-office procedure, branch by branch.

Usage:
  f24-reconciler -tabulato FILE.txt -pdf-folder DIR [flags]
  f24-reconciler -serve [-addr :8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Console report only
  f24-reconciler -tabulato dati.txt -pdf-folder ./deleghe/

  # JSON report to file, with run persisted for audit
  f24-reconciler -tabulato dati.txt -pdf-folder ./deleghe/ -output report.json -format json -db runs.db

  # CSV of all extracted records
  f24-reconciler -tabulato dati.txt -pdf-folder ./deleghe/ -output deleghe.csv -format csv -verbose

  # HTTP API
  f24-reconciler -serve -addr :8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("f24-reconciler v%s\n", version)
		os.Exit(0)
	}

	log, err := newLogger(*verboseFlag)
	if err != nil {
		fatalf("failed to initialize logging: %v\n", err)
	}
	defer log.Sync()

	cfg := config.Default()
	if *dpiFlag > 0 {
		cfg.OCRDPI = *dpiFlag
	}

	if *serveFlag {
		serve(cfg, log, *addrFlag)
		return
	}

	if *tabulatoFlag == "" || *folderFlag == "" {
		fmt.Fprintln(os.Stderr, "error: -tabulato and -pdf-folder are required")
		flag.Usage()
		os.Exit(2)
	}

	switch *formatFlag {
	case "console", "json", "csv":
	default:
		fatalf("unknown format %q: use console, json or csv\n", *formatFlag)
	}

	if err := run(cfg, log, *tabulatoFlag, *folderFlag, *outputFlag, *formatFlag, *dbFlag); err != nil {
		fatalf("reconciliation failed: %v\n", err)
	}
}

func run(cfg *config.Config, log *zap.Logger, tabulatoPath, folder, output, format, dbPath string) error {
	snapshot, err := ledger.NewParser(cfg, log).Parse(tabulatoPath)
	if err != nil {
		return err
	}

	src := extractor.NewPDFSource(cfg.OCRDPI, cfg.OCRLang, log)
	fields := parser.NewFieldExtractor(cfg, log)
	records, docs, err := processor.New(src, fields, log).ProcessFolder(folder)
	if err != nil {
		return err
	}

	result := reconcile.NewEngine(cfg, log).Reconcile(snapshot, records)
	result.Stats.DocumentsProcessed = docs

	console := &writer.ConsoleWriter{MaxDetail: cfg.MaxDiscrepancyDetail}
	if err := console.Write(os.Stdout, result); err != nil {
		return err
	}

	if output != "" {
		switch format {
		case "json":
			if err := (&writer.JSONWriter{}).WriteToFile(output, result); err != nil {
				return err
			}
			log.Info("JSON report written", zap.String("path", output))
		case "csv":
			if err := (&writer.CSVWriter{}).WriteToFile(output, result.Records); err != nil {
				return err
			}
			log.Info("CSV export written", zap.String("path", output))
		}
	}

	if dbPath != "" {
		db, err := repository.InitDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := repository.NewRunRepo(db).Save(result, docs); err != nil {
			return err
		}
		log.Info("run persisted", zap.String("db", dbPath), zap.String("run_id", result.RunID))
	}

	return nil
}

func serve(cfg *config.Config, log *zap.Logger, addr string) {
	app := fiber.New(fiber.Config{
		BodyLimit: 64 << 20, // slip uploads are image-heavy
	})

	h := &api.Handler{Cfg: cfg, Log: log}
	h.RegisterRoutes(app)

	log.Info("starting HTTP API", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		fatalf("server failed: %v\n", err)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
