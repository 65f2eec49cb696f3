package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/config"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/fetcher"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/finder"
)

func discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover <url>",
		Short: "List the tag-management scripts reachable from a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := fetcher.New(cfg.HTTPTimeoutDuration(), cfg.UserAgent)
			fi := finder.New(client, nil, cfg.FollowScriptRefs)

			scripts, err := fi.Discover(cmd.Context(), args[0], cfg.MaxDepth)
			if err != nil {
				return err
			}

			rendered, err := renderJSON(scripts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().Int("max-depth", 3, "maximum crawl depth when following references")
	cmd.Flags().String("user-agent", fetcher.DefaultUserAgent, "User-Agent header sent with requests")
	cmd.Flags().Int("http-timeout", 30000, "per-request timeout in milliseconds")
	cmd.Flags().Bool("follow-script-refs", false, "also scan fetched scripts for further script URLs")

	config.BindFlags(cmd.Flags())

	return cmd
}
