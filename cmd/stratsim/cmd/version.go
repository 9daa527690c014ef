package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the stratsim CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stratsim version %s\n", version)
		fmt.Println("A technical-analysis trading strategy simulator")
		fmt.Println("https://github.com/quantfold/stratsim")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
