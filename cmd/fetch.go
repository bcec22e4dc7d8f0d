package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/fetcher"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download one difficulty-list page and the song index into the data directory",
	Long: `Downloads the difficulty-list page of one level (1-19) to <data>/<level>.html
and the song index to <data>/songdata.js. The level comes from --difficulty or
the DIFFICULTY environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := fetcher.ParseLevel(viper.GetString("difficulty"))
		if err != nil {
			return err
		}

		client, err := newHTTPClient(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force-songdata")

		f := &fetcher.Fetcher{
			Client:  client,
			BaseURL: viper.GetString("source.base_url"),
			DataDir: viper.GetString("paths.data"),
		}

		path, err := f.Level(cmd.Context(), level)
		if err != nil {
			return err
		}
		fmt.Println(path)

		// Pages still parse without the song index, just with fewer fields.
		if songPath, err := f.SongData(cmd.Context(), force); err != nil {
			utils.Log.Warnf("Could not download song index: %v", err)
		} else {
			fmt.Println(songPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringP("difficulty", "d", "", "Difficulty level to download (1-19)")
	fetchCmd.Flags().Bool("force-songdata", false, "Download songdata.js even if it already exists")

	viper.BindPFlag("difficulty", fetchCmd.Flags().Lookup("difficulty"))
	viper.BindEnv("difficulty", "DIFFICULTY")
}
