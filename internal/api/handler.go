// Package api exposes the reconciliation pipeline over HTTP: upload a
// tabulato plus slip PDFs, get the full result structure back as JSON.
package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/config"
	"github.com/bancadelta/f24-reconciler/internal/extractor"
	"github.com/bancadelta/f24-reconciler/internal/ledger"
	"github.com/bancadelta/f24-reconciler/internal/models"
	"github.com/bancadelta/f24-reconciler/internal/parser"
	"github.com/bancadelta/f24-reconciler/internal/processor"
	"github.com/bancadelta/f24-reconciler/internal/reconcile"
)

const apiVersion = "1.0.0"

// ReconcileResponse is the JSON envelope around a reconciliation result.
type ReconcileResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Result  *models.Result `json:"result,omitempty"`
}

// Handler holds the HTTP handlers and their shared dependencies.
type Handler struct {
	Cfg *config.Config
	Log *zap.Logger
}

// RegisterRoutes sets up the API routes on the fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/reconcile", h.handleReconcile)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": apiVersion,
	})
}

// handleReconcile accepts a multipart form with a "tabulato" text file and
// one or more "slips" PDF files, runs the full pipeline on them and returns
// the result. Uploaded files live in a temp dir for the duration of the
// request only.
func (h *Handler) handleReconcile(c *fiber.Ctx) error {
	tabulatoFile, err := c.FormFile("tabulato")
	if err != nil {
		return badRequest(c, "missing tabulato file (form field 'tabulato')")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, fmt.Sprintf("invalid multipart form: %v", err))
	}
	slips := form.File["slips"]
	if len(slips) == 0 {
		return badRequest(c, "no slip PDFs uploaded (form field 'slips')")
	}
	for _, slip := range slips {
		if !strings.EqualFold(filepath.Ext(slip.Filename), ".pdf") {
			return badRequest(c, fmt.Sprintf("slip %q is not a PDF", slip.Filename))
		}
	}

	tmpDir, err := os.MkdirTemp("", "f24-api-*")
	if err != nil {
		return serverError(c, "failed to stage uploads")
	}
	defer os.RemoveAll(tmpDir)

	tabulatoPath := filepath.Join(tmpDir, "tabulato.txt")
	if err := c.SaveFile(tabulatoFile, tabulatoPath); err != nil {
		return serverError(c, "failed to save tabulato")
	}

	slipDir := filepath.Join(tmpDir, "slips")
	if err := os.Mkdir(slipDir, 0o755); err != nil {
		return serverError(c, "failed to stage uploads")
	}
	for i, slip := range slips {
		name := fmt.Sprintf("%03d-%s", i, filepath.Base(slip.Filename))
		if err := c.SaveFile(slip, filepath.Join(slipDir, name)); err != nil {
			return serverError(c, fmt.Sprintf("failed to save slip %q", slip.Filename))
		}
	}

	snapshot, err := ledger.NewParser(h.Cfg, h.Log).Parse(tabulatoPath)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ReconcileResponse{
			Success: false,
			Error:   fmt.Sprintf("tabulato parsing failed: %v", err),
		})
	}

	src := extractor.NewPDFSource(h.Cfg.OCRDPI, h.Cfg.OCRLang, h.Log)
	fields := parser.NewFieldExtractor(h.Cfg, h.Log)
	records, docs, err := processor.New(src, fields, h.Log).ProcessFolder(slipDir)
	if err != nil {
		return serverError(c, fmt.Sprintf("slip processing failed: %v", err))
	}

	result := reconcile.NewEngine(h.Cfg, h.Log).Reconcile(snapshot, records)
	result.Stats.DocumentsProcessed = docs

	return c.JSON(ReconcileResponse{Success: true, Result: result})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ReconcileResponse{Success: false, Error: msg})
}

func serverError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ReconcileResponse{Success: false, Error: msg})
}
