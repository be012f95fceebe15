package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vgauthier/recevo/internal/model"
	"github.com/vgauthier/recevo/internal/pipeline"
	"github.com/vgauthier/recevo/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchRate    float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Screen every claim document in a directory",
	Long: `Batch screens a directory of claim documents concurrently:
- Collect claim files (txt, md, html) under the directory
- Screen them in parallel with a configurable worker count
- Write a JSON and Markdown report per document
- Print a summary grouped by provisional decision

Metadata flags apply to every document in the run; use analyze for
per-claim metadata.

Example:
  recevo batch ./reclamations
  recevo batch ./reclamations --concurrency 8 --output-dir ./rapports
  recevo batch ./reclamations --llm --llm-provider ollama --rate 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./recevo-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "max documents per second (0 = unlimited, use with --llm)")

	// Shared flags
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "enable result caching in this directory")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&referenceDate, "reference-date", "", "reference date for deadline checks (YYYY-MM-DD, default: today)")

	// Claim metadata flags (applied to the whole run)
	batchCmd.Flags().StringVar(&claimant, "claimant", "", "claimant name")
	batchCmd.Flags().StringVar(&sector, "sector", "", "claimant activity sector")
	batchCmd.Flags().StringVar(&claimDate, "claim-date", "", "date the claims were lodged (YYYY-MM-DD)")
	batchCmd.Flags().IntVar(&periodStart, "period-start", 0, "first contested year")
	batchCmd.Flags().IntVar(&periodEnd, "period-end", 0, "last contested year")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM-assisted classification")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Recevo Batch Screening\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Concurrency.RatePerSecond = batchRate

	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}

	meta, err := metadataFromFlags()
	if err != nil {
		return err
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, concurrency, cfg.Concurrency.RatePerSecond, cfg.Concurrency.Burst)

	fmt.Fprintf(os.Stderr, "⚙️  Collecting claim documents...\n")
	results, err := processor.ProcessDir(ctx, dir, meta)
	if err != nil {
		return fmt.Errorf("process directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Screened %d documents with %d workers\n", len(results), concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	counts := map[model.Decision]int{}
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		counts[result.Analysis.Classification.Decision]++

		slug := sanitizeFilename(result.Analysis.DocumentID)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Analysis, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Analysis, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %s (confiance %.0f%%)\n",
			result.Analysis.DocumentID,
			result.Analysis.Classification.Decision,
			result.Analysis.Classification.OverallConfidence*100)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:               %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Recevable:           %d\n", counts[model.DecisionAdmissible])
	fmt.Fprintf(os.Stderr, "  Irrecevable:         %d\n", counts[model.DecisionInadmissible])
	fmt.Fprintf(os.Stderr, "  Instruction requise: %d\n", counts[model.DecisionNeedsInstruction])
	fmt.Fprintf(os.Stderr, "  Failures:            %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:              %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename sanitizes a document ID for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "document"
	}

	return s
}
