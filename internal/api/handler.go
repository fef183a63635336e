// Package api exposes the analysis pipeline over HTTP. The surface is a thin
// collaborator layer: one analyze endpoint plus a health probe, with results
// cached by content hash so repeated uploads of the same statement are free.
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	gocache "github.com/patrickmn/go-cache"

	"github.com/insightdelivered/mca-underwriting-engine/internal/extractor"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
	"github.com/insightdelivered/mca-underwriting-engine/internal/pipeline"
)

const (
	cacheTTL     = 15 * time.Minute
	cacheSweep   = 5 * time.Minute
	maxBodyBytes = 32 << 20
)

// AnalyzeResponse is the JSON envelope for /api/analyze.
type AnalyzeResponse struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Cached   bool             `json:"cached,omitempty"`
	Analysis *models.Analysis `json:"analysis,omitempty"`
}

// Server wires the pipeline into a Fiber app.
type Server struct {
	pipe    *pipeline.Pipeline
	cache   *gocache.Cache
	version string
}

func NewServer(pipe *pipeline.Pipeline, version string) *Server {
	return &Server{
		pipe:    pipe,
		cache:   gocache.New(cacheTTL, cacheSweep),
		version: version,
	}
}

// App builds the configured Fiber application.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             maxBodyBytes,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/api/health", s.handleHealth)
	app.Post("/api/analyze", s.handleAnalyze)
	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": s.version})
}

// handleAnalyze accepts either a multipart PDF upload under "file" or raw
// statement text under "text", with an optional "format" override.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	text, sourceID, err := s.statementText(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return writeError(c, fiber.StatusUnprocessableEntity, "no statement text could be extracted")
	}

	key := contentKey(text)
	if hit, ok := s.cache.Get(key); ok {
		return c.JSON(AnalyzeResponse{Success: true, Cached: true, Analysis: hit.(*models.Analysis)})
	}

	raw := models.RawStatement{Text: text, SourceID: sourceID}
	var analysis *models.Analysis
	if format := c.FormValue("format"); format != "" {
		analysis, err = s.pipe.AnalyzeAs(c.Context(), raw, models.BankFormat(strings.ToLower(format)))
	} else {
		analysis, err = s.pipe.Analyze(c.Context(), raw)
	}
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	s.cache.Set(key, analysis, gocache.DefaultExpiration)
	return c.JSON(AnalyzeResponse{Success: true, Analysis: analysis})
}

// statementText resolves the request to raw text: pre-extracted text wins,
// otherwise the uploaded PDF goes through the extractor.
func (s *Server) statementText(c *fiber.Ctx) (text, sourceID string, err error) {
	if t := c.FormValue("text"); t != "" {
		return t, "inline", nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		return "", "", fmt.Errorf("no statement provided: use form field 'file' or 'text'")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return "", "", fmt.Errorf("only PDF uploads are supported")
	}

	f, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, f); err != nil {
		return "", "", fmt.Errorf("save upload: %w", err)
	}
	tmp.Close()

	text, err = extractor.ExtractTextCombined(tmp.Name())
	if err != nil {
		return "", "", fmt.Errorf("PDF extraction failed: %w", err)
	}
	return text, header.Filename, nil
}

func contentKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{Success: false, Error: msg})
}
