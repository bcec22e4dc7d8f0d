package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/dashboard"
	"github.com/tierscope/tierscope/pkg/fetcher"
	"github.com/tierscope/tierscope/pkg/whttp"
)

var cfgFile string

const (
	LOGO = `   _   _
  | |_(_) ___ _ __ ___  ___ ___  _ __   ___
  | __| |/ _ \ '__/ __|/ __/ _ \| '_ \ / _ \
  | |_| |  __/ |  \__ \ (_| (_) | |_) |  __/
   \__|_|\___|_|  |___/\___\___/| .__/ \___|
                                |_|
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tierscope",
	Short: "Collects rhythm game chart tiers into a CSV.",
	Long: LOGO + `tierscope downloads difficulty-list pages, reconciles them with the song index
and exports one CSV of charts with their ratings and tiers. It also serves a
dashboard over the published tier spreadsheet.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelString, _ := cmd.Flags().GetString("loglevel")
		return utils.SetLogLevel(levelString)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tierscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")

	viper.SetDefault("paths.data", "data")
	viper.SetDefault("paths.output", "output")
	viper.SetDefault("source.base_url", fetcher.DefaultBaseURL)
	viper.SetDefault("http.retries", 0)
	viper.SetDefault("dashboard.spreadsheet_id", dashboard.DefaultSpreadsheetID)
	viper.SetDefault("dashboard.gid", dashboard.DefaultSheetGID)
	viper.SetDefault("dashboard.listen", ":8080")
	viper.SetDefault("dashboard.refresh_interval", "0s")
	viper.SetDefault("db.path", "tierscope.sqlite")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".tierscope")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.tierscope.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				utils.Log.Debugf("Could not create config file: %v", err)
			}
		}
	}
}

// newHTTPClient builds the client shared by every remote fetch of a command.
func newHTTPClient(cmd *cobra.Command) (*retryablehttp.Client, error) {
	proxy, _ := cmd.Flags().GetString("proxy")
	return whttp.NewClient(viper.GetInt("http.retries"), proxy)
}
