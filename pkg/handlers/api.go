package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"postcms/pkg/models"
	"postcms/pkg/services"
)

// API bundles the corpus services behind the JSON endpoints.
type API struct {
	Corpus    *services.Corpus
	Validator *services.Validator
	Renderer  *services.Renderer
	Generator *services.Generator
	Git       *services.Git
	Assets    *services.Assets

	// GitToken authenticates remote git operations (sync/publish).
	GitToken string
	// DefaultFormat is the front-matter encoding for new posts.
	DefaultFormat string
}

// Register wires all routes onto the engine. API routes sit behind the
// auth middleware; login/logout do not.
func Register(r *gin.Engine, api *API, auth *Auth) {
	r.POST("/login", auth.Login)
	r.GET("/logout", auth.Logout)

	authorized := r.Group("/api")
	authorized.Use(auth.Required)
	{
		authorized.GET("/posts", api.ListPosts)
		authorized.GET("/categories", api.ListCategories)
		authorized.GET("/post", api.GetPost)
		authorized.POST("/post", api.CreatePost)
		authorized.GET("/preview", api.Preview)
		authorized.GET("/validate", api.Validate)
		authorized.GET("/scripts", api.ListScripts)
		authorized.POST("/build", api.Build)
		authorized.POST("/sync", api.Sync)
		authorized.POST("/publish", api.Publish)
	}
}

// ListPosts returns the corpus listing, optionally filtered by the
// category query parameter.
func (a *API) ListPosts(c *gin.Context) {
	var (
		posts []models.Post
		err   error
	)
	if category := c.Query("category"); category != "" {
		posts, err = a.Corpus.ByCategory(category)
	} else {
		posts, err = a.Corpus.Posts()
	}
	if err != nil {
		logrus.WithError(err).Error("list posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

func (a *API) ListCategories(c *gin.Context) {
	cats, err := a.Corpus.Categories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	if cats == nil {
		cats = []string{}
	}
	c.JSON(http.StatusOK, cats)
}

func (a *API) GetPost(c *gin.Context) {
	post, err := a.Corpus.Get(c.Query("path"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, services.ErrInvalidPath):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read post"})
		}
		return
	}
	c.JSON(http.StatusOK, post)
}

type createPostRequest struct {
	Slug     string         `json:"slug"`
	Date     string         `json:"date"`
	Title    string         `json:"title"`
	Layout   string         `json:"layout"`
	Category string         `json:"category"`
	CustomJS string         `json:"custom_js"`
	Body     string         `json:"body"`
	Format   string         `json:"format"`
	Extra    map[string]any `json:"extra"`
}

// CreatePost authors a new post. There is deliberately no update
// counterpart: posts are written once and edited in the content repo,
// not through the API.
func (a *API) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		var err error
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	format := req.Format
	if format == "" {
		format = a.DefaultFormat
	}

	fm := models.FrontMatter{
		Layout:   req.Layout,
		Category: req.Category,
		CustomJS: req.CustomJS,
		Title:    req.Title,
		Extra:    req.Extra,
	}

	post, err := a.Corpus.Create(fm, req.Slug, date, req.Body, format)
	if err != nil {
		if errors.Is(err, services.ErrPostExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "post already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logrus.WithField("path", post.Path).Info("post created")
	c.JSON(http.StatusCreated, post)
}

// Preview renders one post body to HTML.
func (a *API) Preview(c *gin.Context) {
	post, err := a.Corpus.Get(c.Query("path"))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path"})
		return
	}

	html, err := a.Renderer.Render([]byte(post.Body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (a *API) Validate(c *gin.Context) {
	report, err := a.Validator.Run()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed to run"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (a *API) ListScripts(c *gin.Context) {
	bundles, err := a.Assets.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scripts"})
		return
	}
	if bundles == nil {
		bundles = []models.ScriptBundle{}
	}
	c.JSON(http.StatusOK, bundles)
}

func (a *API) Build(c *gin.Context) {
	log, err := a.Generator.Build()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": log})
}

func (a *API) Sync(c *gin.Context) {
	log, err := a.Git.Sync(a.GitToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": log})
		return
	}
	a.Corpus.Invalidate()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": log})
}

func (a *API) Publish(c *gin.Context) {
	log, err := a.Git.Publish(a.GitToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": log})
}
