package cmd

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lockfiles banner and version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		Logger.Infof("Starting version command")

		fmt.Println()
		if color.NoColor {
			figure.NewFigure("lockfiles", "alligator2", true).Print()
		} else {
			figure.NewColorFigure("lockfiles", "alligator2", "green", true).Print()
		}
		fmt.Println()
		fmt.Printf("lockfiles %s\n", Version)
	},
}
