package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/analyzer"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/config"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/extractor"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/fetcher"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/finder"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/output"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/retrier"
)

func analyzeCmd() *cobra.Command {
	var single bool

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Discover tag-management scripts from a URL and extract their containers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			a := buildAnalyzer()

			var rendered []byte
			writer := output.NewWriter(nil)

			if single {
				result, err := a.AnalyzeURL(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rendered, err = writer.RenderExtraction(result, format)
				if err != nil {
					return err
				}
			} else {
				result, err := a.AnalyzeRecursive(cmd.Context(), args[0], cfg.MaxDepth)
				if err != nil {
					return err
				}
				rendered, err = writer.RenderMerged(result, format)
				if err != nil {
					return err
				}
			}

			if cfg.Output != "" {
				return writer.WriteFile(cfg.Output, rendered)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
			return nil
		},
	}

	cmd.Flags().BoolVar(&single, "single", false, "treat the URL as one script instead of crawling from it")
	cmd.Flags().Int("max-depth", 3, "maximum crawl depth when following references")
	cmd.Flags().String("user-agent", fetcher.DefaultUserAgent, "User-Agent header sent with requests")
	cmd.Flags().Int("http-timeout", 30000, "per-request timeout in milliseconds")
	cmd.Flags().Int("max-retry", 3, "attempts per fetch+extract call")
	cmd.Flags().String("retry-backoff", "exponential", "backoff kind: exponential, linear or fixed")
	cmd.Flags().Int("retry-initial-delay", 1000, "initial retry delay in milliseconds")
	cmd.Flags().Bool("follow-script-refs", false, "also scan fetched scripts for further script URLs")
	cmd.Flags().Int("sandbox-timeout", 10000, "sandboxed script execution budget in milliseconds")
	cmd.Flags().Int("literal-timeout", 5000, "object-literal evaluation budget in milliseconds")
	cmd.Flags().StringP("output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().String("format", "json", "output format: json, csv or markdown")

	config.BindFlags(cmd.Flags())

	return cmd
}

func buildAnalyzer() *analyzer.Analyzer {
	client := fetcher.New(cfg.HTTPTimeoutDuration(), cfg.UserAgent)
	ex := extractor.New(cfg.SandboxTimeoutDuration(), cfg.LiteralTimeoutDuration())
	fi := finder.New(client, nil, cfg.FollowScriptRefs)

	return analyzer.New(client, ex, fi, analyzer.Options{
		MaxAttempts:  cfg.MaxRetry,
		Backoff:      retrier.Backoff(cfg.RetryBackoff),
		InitialDelay: cfg.RetryInitialDelayDuration(),
	})
}

func renderJSON(v any) (string, error) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
