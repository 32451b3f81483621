package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/canal-matches/internal/document"
	"github.com/pfrederiksen/canal-matches/internal/scraper"
)

func newLocateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "locate [PAGE_URL]",
		Short: "Find the calendar document linked from a web page",
		Long: `Scan the links of a web page and print the URL of the first document whose
first page contains every required phrase. PAGE_URL defaults to SOURCE_PAGE_URL.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			page := cfg.SourcePageURL
			if len(args) == 1 {
				page = args[0]
			}
			if page == "" {
				return fmt.Errorf("no page URL given and SOURCE_PAGE_URL is not set")
			}

			reader, err := document.New(cfg.DocumentReader)
			if err != nil {
				return err
			}

			url, err := scraper.NewLocator(scraper.New(), reader, cfg.RequiredPhrases).Locate(cmd.Context(), page)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
