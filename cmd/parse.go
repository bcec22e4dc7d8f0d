package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/charts"
	"github.com/tierscope/tierscope/pkg/pipeline"
	"github.com/tierscope/tierscope/pkg/storage"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse every downloaded page and export the charts to CSV",
	Long: `Reads every .html page of the data directory, reconciles it with songdata.js,
appends additional.csv and writes <output>/charts.csv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := pipeline.Run(cmd.Context(), pipeline.Config{
			DataDir:   viper.GetString("paths.data"),
			OutputDir: viper.GetString("paths.output"),
		})
		if err != nil {
			return err
		}

		printSummary(res)

		if archive, _ := cmd.Flags().GetBool("db"); archive {
			run, err := archiveRun(cmd.Context(), dbPathFlag(cmd), res.Collection.Charts)
			if err != nil {
				return err
			}
			utils.Log.Infof("Archived run %s (%d charts)", run.ID, run.ChartCount)
		}
		return nil
	},
}

func printSummary(res pipeline.Result) {
	t := utils.NewTable(os.Stdout)
	t.AppendHeader(table.Row{"Difficulty", "Charts"})
	for _, c := range pipeline.Summary(res.Collection) {
		t.AppendRow(table.Row{string(c.Difficulty), c.Count})
	}
	t.AppendFooter(table.Row{"Total", res.Collection.Len()})
	t.Render()

	for _, f := range res.Failed() {
		fmt.Printf("Skipped %s: %v\n", f.Name, f.Err)
	}
	fmt.Println(res.OutputPath)
}

// archiveRun stores the charts as one run while holding the archive lock.
func archiveRun(ctx context.Context, dbPath string, list []charts.Chart) (storage.Run, error) {
	lock, err := utils.LockArchive(ctx, dbPath)
	if err != nil {
		return storage.Run{}, err
	}
	defer lock.Release()

	db, err := storage.Open(dbPath)
	if err != nil {
		return storage.Run{}, err
	}
	defer db.Close()

	return db.SaveRun(ctx, list)
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("db", false, "Also archive the charts as a run in the SQLite database")
	parseCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default from db.path)")
}
