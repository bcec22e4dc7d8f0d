package cmd

import (
	"net/url"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/dashboard"
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Print the dashboard spreadsheet filtered and sorted in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		load, err := sheetLoader(cmd)
		if err != nil {
			return err
		}
		rows, err := load(cmd.Context())
		if err != nil {
			return err
		}

		// The flags mirror the dashboard query parameters.
		q := url.Values{}
		for _, name := range []string{"search", "rating", "minScore", "maxScore", "sortBy", "sortOrder"} {
			if cmd.Flags().Changed(name) {
				v, _ := cmd.Flags().GetString(name)
				q.Set(name, v)
			}
		}
		if omni, _ := cmd.Flags().GetBool("omni"); omni {
			q.Set("omni", "1")
		}
		f, s := dashboard.FromQuery(q)
		shown := dashboard.Apply(rows, f, s)

		t := utils.NewTable(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Title", "Difficulty", "Rating", "Tier", "Score"})
		for _, r := range shown {
			t.AppendRow(table.Row{r.ID, r.Title, r.Difficulty,
				utils.FormatNumber(r.Rating), utils.FormatNumber(r.Tier), utils.FormatNumber(r.Score)})
		}
		t.AppendFooter(table.Row{"", "", "", "", "Shown", len(shown)})
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().String("search", "", "Case-insensitive title substring")
	chartsCmd.Flags().String("rating", "all", "Only charts with this rating")
	chartsCmd.Flags().Bool("omni", false, "Include charts with a negative tier")
	chartsCmd.Flags().String("minScore", "0", "Minimum score")
	chartsCmd.Flags().String("maxScore", "1000000", "Maximum score")
	chartsCmd.Flags().String("sortBy", "title", "Sort key: title, rating, tier, score, difficulty")
	chartsCmd.Flags().String("sortOrder", "asc", "Sort direction: asc or desc")
}
