package news

import (
	"fmt"
	"time"

	clicfg "github.com/crucial707/district-digest/cmd/cli/config"
	"github.com/crucial707/district-digest/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init News
// ==========================
func InitNews(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newsCmd())
}

func newsCmd() *cobra.Command {
	var district, date string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Fetch and classify crime news for a district",
		Long: `Runs the same fetch, classify and related-article pipeline as the dashboard.
Without a valid CURRENTS_API_KEY the result is built from mock articles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := clicfg.Load()
			if err != nil {
				return err
			}
			svc, err := clicfg.NewDigest(cfg)
			if err != nil {
				return err
			}

			d, err := svc.Build(cmd.Context(), district, date)
			if err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), d)
			}

			rows := make([][]interface{}, 0, len(d.Articles))
			for i, a := range d.Articles {
				rows = append(rows, []interface{}{i + 1, a.Category, a.Title, a.Source.Name, a.PublishedAt, len(a.RelatedArticles)})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"#", "Category", "Title", "Source", "Published", "Related"}, rows)
			if d.IsMock {
				fmt.Fprintln(cmd.OutOrStdout(), "(mock articles: live news unavailable)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&district, "district", "", "District name, e.g. Guntur")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Date (YYYY-MM-DD); the search covers the 30 days before it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON instead of a table")
	cmd.MarkFlagRequired("district")
	return cmd
}
