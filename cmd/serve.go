package cmd

import (
	"context"
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"postcms/pkg/config"
	"postcms/pkg/handlers"
	"postcms/pkg/services"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the authoring API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	git := newGit()
	corpus := services.NewCorpus(config.PostsPath(), git)

	api := &handlers.API{
		Corpus:        corpus,
		Validator:     newValidator(corpus),
		Renderer:      services.NewRenderer(),
		Generator:     &services.Generator{Dir: config.SiteRoot, Command: config.GeneratorCommand, Args: config.GeneratorArgs},
		Git:           git,
		Assets:        &services.Assets{SiteRoot: config.SiteRoot, ScriptsDir: config.ScriptsDir},
		GitToken:      config.GitToken,
		DefaultFormat: config.DefaultFormat,
	}
	auth := &handlers.Auth{PasswordHash: config.AdminPasswordHash}
	if auth.PasswordHash == "" {
		logrus.Warn("no admin password hash configured, API is unauthenticated")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		if err := corpus.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logrus.WithError(err).Warn("posts watcher stopped")
		}
	}()

	r := gin.Default()

	store := cookie.NewStore([]byte(config.SessionSecret))
	r.Use(sessions.Sessions("postcms_session", store))

	// The generator output is served read-only for previewing builds.
	r.Static(config.PreviewURL, config.OutputPath())

	handlers.Register(r, api, auth)

	addr := serveAddr
	if addr == "" {
		addr = config.Addr
	}
	logrus.WithField("addr", addr).Info("starting authoring API")
	return r.Run(addr)
}
