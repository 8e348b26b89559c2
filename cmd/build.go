package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"postcms/pkg/config"
	"postcms/pkg/services"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the external site generator over the corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := &services.Generator{
			Dir:     config.SiteRoot,
			Command: config.GeneratorCommand,
			Args:    config.GeneratorArgs,
		}
		log, err := gen.Build()
		if log != "" {
			fmt.Print(log)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
