// Package cmd provides the postcms command-line interface. Configuration
// comes from POSTCMS_* environment variables, an optional postcms.yml,
// and a .env file for local development.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"postcms/pkg/config"
	"postcms/pkg/logging"
	"postcms/pkg/services"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "postcms",
	Short: "Manage a markdown blog corpus for an external static-site generator",
	Long: `postcms manages a corpus of blog posts: markdown documents named
YYYY-MM-DD-slug.md whose front matter (layout, category, custom_js)
is consumed by an external static-site generator.

  postcms serve       Start the authoring API
  postcms validate    Check the corpus structure
  postcms new         Scaffold a post
  postcms build       Run the external generator`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default postcms.yml in the working directory)")
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	logging.Setup(config.LogLevel, config.LogJSON)
}

// newGit builds the git service over the site checkout.
func newGit() *services.Git {
	return &services.Git{
		Dir:       config.SiteRoot,
		Remote:    config.GitRemote,
		Branch:    config.GitBranch,
		UserName:  config.GitUserName,
		UserEmail: config.GitUserEmail,
	}
}

// newValidator assembles the corpus checker with all optional checks.
func newValidator(corpus *services.Corpus) *services.Validator {
	return &services.Validator{
		Corpus:   corpus,
		Assets:   &services.Assets{SiteRoot: config.SiteRoot, ScriptsDir: config.ScriptsDir},
		Renderer: services.NewRenderer(),
	}
}
