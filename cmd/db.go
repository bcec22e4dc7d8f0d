package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/charts"
	"github.com/tierscope/tierscope/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the archive of parsed runs",
}

// dbPathFlag returns --dbpath when set and the db.path setting otherwise.
func dbPathFlag(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("dbpath"); p != "" {
		return p
	}
	return viper.GetString("db.path")
}

// openArchive opens an existing archive; it never creates one.
func openArchive(cmd *cobra.Command) (*storage.DB, error) {
	dbPath := dbPathFlag(cmd)
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found: %s", dbPath)
		}
		return nil, err
	}
	return storage.Open(dbPath)
}

// runID resolves --run, defaulting to the latest run.
func runID(ctx context.Context, cmd *cobra.Command, db *storage.DB) (string, error) {
	if id, _ := cmd.Flags().GetString("run"); id != "" {
		return id, nil
	}
	run, err := db.LatestRun(ctx)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lists the archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := db.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs in the database.")
			return nil
		}

		t := utils.NewTable(os.Stdout)
		t.AppendHeader(table.Row{"Run", "Created", "Charts"})
		for _, r := range runs {
			t.AppendRow(table.Row{r.ID, r.CreatedAt.Local().Format(time.DateTime), r.ChartCount})
		}
		t.Render()
		return nil
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-difficulty statistics of a run (latest by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := runID(cmd.Context(), cmd, db)
		if err != nil {
			return err
		}
		stats, err := db.GetStats(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No charts in this run.")
			return nil
		}

		t := utils.NewTable(os.Stdout)
		t.SetTitle("Run " + id)
		t.AppendHeader(table.Row{"Difficulty", "Charts", "Songs", "Min rating", "Max rating"})
		var total int
		for _, s := range stats {
			t.AppendRow(table.Row{s.Difficulty, s.ChartCount, s.SongCount,
				utils.FormatNumber(s.MinRating), utils.FormatNumber(s.MaxRating)})
			total += s.ChartCount
		}
		t.AppendFooter(table.Row{"Total", total})
		t.Render()
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Writes a run (latest by default) as charts.csv, or to stdout with --stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := runID(cmd.Context(), cmd, db)
		if err != nil {
			return err
		}
		list, err := db.ListCharts(cmd.Context(), id)
		if err != nil {
			return err
		}

		if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
			if err := charts.WriteCSV(os.Stdout, list); err != nil {
				return err
			}
			fmt.Println()
			return nil
		}

		path, err := charts.ExportFile(viper.GetString("paths.output"), list)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(runsCmd)
	dbCmd.AddCommand(statsCmd)
	dbCmd.AddCommand(exportCmd)
	dbCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default from db.path)")

	runsCmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	statsCmd.Flags().String("run", "", "Run id (default: latest)")
	exportCmd.Flags().String("run", "", "Run id (default: latest)")
	exportCmd.Flags().Bool("stdout", false, "Write the CSV to stdout instead of the output directory")
}
