package config

import (
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Package-level settings, resolved once by Init. Precedence, highest
// first: environment (POSTCMS_*), an optional config file, the defaults
// below. A .env file is loaded up front so local development keeps
// secrets out of the shell.
var (
	Addr = ":8080"

	// SiteRoot is the checkout of the content repository the external
	// generator consumes. PostsDir and ScriptsDir are relative to it.
	SiteRoot   = "./site"
	PostsDir   = "_posts"
	ScriptsDir = "assets/js"
	OutputDir  = "public"
	PreviewURL = "/preview/"

	// GeneratorCommand is the external static-site generator binary.
	// The corpus is only input to it; nothing here interprets its output.
	GeneratorCommand = "jekyll"
	GeneratorArgs    = []string{"build"}

	// DefaultFormat is the front-matter encoding used when scaffolding
	// new posts: yaml, toml or json.
	DefaultFormat = "yaml"

	SessionSecret     = ""
	AdminPasswordHash = ""

	GitRemote    = "origin"
	GitBranch    = "main"
	GitUserName  = "postcms"
	GitUserEmail = "postcms@localhost"
	GitToken     = ""

	LogLevel = "info"
	LogJSON  = false
)

// Init loads configuration. cfgFile may be empty, in which case a
// postcms.yml in the working directory is used when present.
func Init(cfgFile string) error {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file loaded")
	}

	v := viper.New()
	v.SetEnvPrefix("POSTCMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("site.root", "./site")
	v.SetDefault("site.posts_dir", "_posts")
	v.SetDefault("site.scripts_dir", "assets/js")
	v.SetDefault("site.output_dir", "public")
	v.SetDefault("site.preview_url", "/preview/")
	v.SetDefault("generator.command", "jekyll")
	v.SetDefault("generator.args", []string{"build"})
	v.SetDefault("frontmatter.format", "yaml")
	v.SetDefault("git.remote", "origin")
	v.SetDefault("git.branch", "main")
	v.SetDefault("git.user_name", "postcms")
	v.SetDefault("git.user_email", "postcms@localhost")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("postcms")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return err
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	Addr = v.GetString("addr")
	SiteRoot = v.GetString("site.root")
	PostsDir = v.GetString("site.posts_dir")
	ScriptsDir = v.GetString("site.scripts_dir")
	OutputDir = v.GetString("site.output_dir")
	PreviewURL = v.GetString("site.preview_url")
	GeneratorCommand = v.GetString("generator.command")
	GeneratorArgs = v.GetStringSlice("generator.args")
	DefaultFormat = v.GetString("frontmatter.format")
	SessionSecret = v.GetString("session_secret")
	AdminPasswordHash = v.GetString("admin_password_hash")
	GitRemote = v.GetString("git.remote")
	GitBranch = v.GetString("git.branch")
	GitUserName = v.GetString("git.user_name")
	GitUserEmail = v.GetString("git.user_email")
	GitToken = v.GetString("git.token")
	LogLevel = v.GetString("log.level")
	LogJSON = v.GetBool("log.json")

	return nil
}

// PostsPath returns the posts directory under the site root.
func PostsPath() string {
	return filepath.Join(SiteRoot, PostsDir)
}

// OutputPath returns the generator output directory under the site root.
func OutputPath() string {
	return filepath.Join(SiteRoot, OutputDir)
}
