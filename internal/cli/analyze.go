package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/extractor"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
	"github.com/insightdelivered/mca-underwriting-engine/internal/pipeline"
	"github.com/insightdelivered/mca-underwriting-engine/internal/worker"
	"github.com/insightdelivered/mca-underwriting-engine/internal/writer"
)

var (
	analyzeFormat string
	analyzeJobs   int
	analyzeOutDir string
	analyzeCSV    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyze one or more bank statements",
	Long: `Analyze runs the full pipeline on each input. PDF inputs go through text
extraction first; .txt inputs are taken as pre-extracted statement text.

With a single input and no --out, the JSON report goes to stdout. With
--out, one <name>.json (and optionally <name>.csv) per input is written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "skip detection and force a bank format (chase, bofa, wellsfargo, citibank, usbank, webster, generic)")
	analyzeCmd.Flags().IntVar(&analyzeJobs, "jobs", 4, "number of statements analyzed in parallel")
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out", "", "directory for per-statement reports")
	analyzeCmd.Flags().BoolVar(&analyzeCSV, "csv", false, "also write the scrubbed transaction register as CSV")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pipe, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	analyzeOne := func(ctx context.Context, path string) (*models.Analysis, error) {
		raw, err := readStatement(path)
		if err != nil {
			return nil, err
		}
		if analyzeFormat != "" {
			return pipe.AnalyzeAs(ctx, raw, models.BankFormat(strings.ToLower(analyzeFormat)))
		}
		return pipe.Analyze(ctx, raw)
	}

	results := worker.Run(cmd.Context(), args, analyzeJobs, analyzeOne)

	if analyzeOutDir != "" {
		if err := os.MkdirAll(analyzeOutDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	jsonWriter := &writer.JSONWriter{}
	csvWriter := &writer.CSVWriter{IncludeHeader: true}
	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Path, res.Err)
			continue
		}
		if analyzeOutDir == "" {
			if err := jsonWriter.Write(os.Stdout, res.Analysis); err != nil {
				return err
			}
			continue
		}
		base := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
		if err := jsonWriter.WriteToFile(filepath.Join(analyzeOutDir, base+".json"), res.Analysis); err != nil {
			return err
		}
		if analyzeCSV {
			if err := csvWriter.WriteToFile(filepath.Join(analyzeOutDir, base+".csv"), res.Analysis); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stderr, "%s: quality %d (%s), risk %d (tier %s), %d positions\n",
			res.Path, res.Analysis.Quality.Score, res.Analysis.Quality.Status,
			res.Analysis.Risk.Score, res.Analysis.Risk.Tier, len(res.Analysis.Positions.Positions))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d statements failed", failures, len(results))
	}
	return nil
}

// readStatement loads a PDF (via the extractor) or a pre-extracted text file.
func readStatement(path string) (models.RawStatement, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := extractor.ExtractTextCombined(path)
		if err != nil {
			return models.RawStatement{}, err
		}
		return models.RawStatement{Text: text, SourceID: filepath.Base(path)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.RawStatement{}, fmt.Errorf("read %s: %w", path, err)
	}
	return models.RawStatement{Text: string(data), SourceID: filepath.Base(path)}, nil
}
