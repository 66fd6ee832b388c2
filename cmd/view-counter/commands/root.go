package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Command = cobra.Command

func Run(args []string) error {
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

var RootCmd = &cobra.Command{
	Use:   "view-counter",
	Short: "per-post page view counter.",
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "config.json", "config file name.")

	viper.SetEnvPrefix("view_counter")
	viper.BindEnv("config")

	viper.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config"))
}
