package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const sessionAuthKey = "authenticated"

// Auth guards the API with a cookie session and a single admin
// password, stored as a bcrypt hash. An empty hash disables the guard,
// which is only sensible for local authoring against a local checkout.
type Auth struct {
	PasswordHash string
}

// Required aborts unauthenticated API requests with 401.
func (a *Auth) Required(c *gin.Context) {
	if a.PasswordHash == "" {
		c.Next()
		return
	}

	session := sessions.Default(c)
	if logged, ok := session.Get(sessionAuthKey).(bool); !ok || !logged {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

// Login checks the admin password and opens a session.
func (a *Auth) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	if a.PasswordHash == "" {
		c.JSON(http.StatusOK, gin.H{"status": "auth disabled"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionAuthKey, true)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Logout clears the session.
func (a *Auth) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
