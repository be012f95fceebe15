package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vgauthier/recevo/internal/model"
	"github.com/vgauthier/recevo/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	timeout       time.Duration
	cacheDir      string
	noFooter      bool
	referenceDate string

	claimant      string
	sector        string
	claimDate     string
	periodStart   int
	periodEnd     int
	claimedAmount string

	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Screen a single claim document for admissibility",
	Long: `Analyze screens one claim document to:
- Extract dates, monetary amounts and file references
- Check the contestation deadline against the decision date
- Check coverage of the eligible CSPE period
- Check the prescription window
- Check for cost pass-through declarations
- Produce a provisional classification with per-criterion explanations

Example:
  recevo analyze reclamation.txt
  recevo analyze reclamation.txt --json report.json --md report.md
  recevo analyze reclamation.txt --claim-date 2023-02-15 --period-start 2012 --period-end 2014
  recevo analyze reclamation.txt --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "analysis.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Engine flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "enable result caching in this directory")
	analyzeCmd.Flags().StringVar(&referenceDate, "reference-date", "", "reference date for deadline checks (YYYY-MM-DD, default: today)")

	// Claim metadata flags
	analyzeCmd.Flags().StringVar(&claimant, "claimant", "", "claimant name")
	analyzeCmd.Flags().StringVar(&sector, "sector", "", "claimant activity sector")
	analyzeCmd.Flags().StringVar(&claimDate, "claim-date", "", "date the claim was lodged (YYYY-MM-DD)")
	analyzeCmd.Flags().IntVar(&periodStart, "period-start", 0, "first contested year")
	analyzeCmd.Flags().IntVar(&periodEnd, "period-end", 0, "last contested year")
	analyzeCmd.Flags().StringVar(&claimedAmount, "claimed-amount", "", "claimed amount in euros")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM-assisted classification")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	meta, err := metadataFromFlags()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	analysis, err := p.AnalyzeFile(ctx, path, meta)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		counts := analysis.EntityCounts()
		fmt.Fprintf(os.Stderr, "✓ Extracted %d dates, %d amounts, %d references\n",
			counts["dates"], counts["amounts"], counts["references"])
		fmt.Fprintf(os.Stderr, "✓ Classified by %s engine\n", analysis.Classification.Engine)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderAnalysis(analysis, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the engine configuration from flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Rules.ReferenceDate = referenceDate
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if cacheDir != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.Dir = cacheDir
	}

	if llmEnabled {
		if err := applyLLMFlags(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyLLMFlags wires provider, model and the API key from environment
func applyLLMFlags(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unknown LLM provider: %s", llmProvider)
	}

	return nil
}

// metadataFromFlags parses the claim metadata flags
func metadataFromFlags() (model.ClaimMetadata, error) {
	meta := model.ClaimMetadata{
		Claimant:    claimant,
		Sector:      sector,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	if claimDate != "" {
		t, err := time.Parse("2006-01-02", claimDate)
		if err != nil {
			return meta, fmt.Errorf("invalid --claim-date %q: expected YYYY-MM-DD", claimDate)
		}
		meta.ClaimDate = &t
	}

	if claimedAmount != "" {
		amount, err := decimal.NewFromString(claimedAmount)
		if err != nil {
			return meta, fmt.Errorf("invalid --claimed-amount %q: %w", claimedAmount, err)
		}
		meta.ClaimedAmount = amount
	}

	if meta.PeriodStart > 0 && meta.PeriodEnd > 0 && meta.PeriodEnd < meta.PeriodStart {
		return meta, fmt.Errorf("--period-end %d precedes --period-start %d", meta.PeriodEnd, meta.PeriodStart)
	}

	return meta, nil
}
