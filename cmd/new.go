package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"postcms/pkg/config"
	"postcms/pkg/models"
	"postcms/pkg/services"
)

var (
	newLayout   string
	newCategory string
	newTitle    string
	newCustomJS string
	newDate     string
	newFormat   string
)

var newCmd = &cobra.Command{
	Use:   "new <slug>",
	Short: "Scaffold a post as YYYY-MM-DD-slug.md",
	Long: `Scaffold a new post in the posts directory. The filename is derived
from the date and slug; creation is refused if the post already
exists, since posts are authored exactly once.

Examples:
  postcms new rust-guessing-game --category tutorials
  postcms new sorting-visualizer --category snippets --custom-js sorting-visualizer`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newLayout, "layout", "post", "rendering template identifier")
	newCmd.Flags().StringVar(&newCategory, "category", "", "category tag (required)")
	newCmd.Flags().StringVar(&newTitle, "title", "", "post title (defaults to the slug)")
	newCmd.Flags().StringVar(&newCustomJS, "custom-js", "", "script bundle to attach")
	newCmd.Flags().StringVar(&newDate, "date", "", "publish date YYYY-MM-DD (defaults to today)")
	newCmd.Flags().StringVar(&newFormat, "format", "", "front-matter format: yaml, toml or json")
	newCmd.MarkFlagRequired("category")
}

func runNew(cmd *cobra.Command, args []string) error {
	date := time.Now()
	if newDate != "" {
		var err error
		if date, err = time.Parse("2006-01-02", newDate); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
	}

	format := newFormat
	if format == "" {
		format = config.DefaultFormat
	}

	corpus := services.NewCorpus(config.PostsPath(), nil)
	post, err := corpus.Create(models.FrontMatter{
		Layout:   newLayout,
		Category: newCategory,
		CustomJS: newCustomJS,
		Title:    newTitle,
	}, args[0], date, "", format)
	if err != nil {
		return err
	}

	fmt.Printf("created %s\n", post.Path)
	return nil
}
