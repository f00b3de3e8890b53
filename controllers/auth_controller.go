package controllers

import (
	"errors"
	"net/http"
	"strings"

	"shelfshare/app"
	"shelfshare/db"
	"shelfshare/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct{ *Srv }

func GetAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /signup
func (ac *AuthController) Signup(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Confirm  string `json:"confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Password != in.Confirm {
		c.JSON(http.StatusBadRequest, app.H{"error": "passwords must match"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "could not hash password"})
		return
	}
	u := &models.User{
		ID:       uuid.NewString(),
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hash),
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, db.ErrUsernameTaken) || errors.Is(err, db.ErrEmailTaken) {
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u})
}

// POST /login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 与密码错误同一提示，避免暴露邮箱是否注册
			c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}

	sid := uuid.NewString()
	if err := ac.Sess.Create(c.Request.Context(), sid, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "could not create session"})
		return
	}
	ac.setSessionCookie(c, sid, int(ac.Sess.TTL().Seconds()))
	c.JSON(http.StatusOK, app.H{"user": u})
}

// GET /logout
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.SessionCookie); err == nil && ck.Value != "" {
		_ = ac.Sess.Delete(c.Request.Context(), ck.Value)
	}
	ac.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /delete-account
// Removes the caller's account and everything cascading from it, then
// revokes every live session so stale cookies stop working immediately.
func (ac *AuthController) DeleteAccount(c *gin.Context) {
	uid := app.CurrentUserID(c)
	if err := ac.Repo.DeleteUserByID(c.Request.Context(), uid); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = ac.Sess.RevokeAllForUser(c.Request.Context(), uid)
	ac.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(ac.Cfg.WebOrigin, "https://"),
	})
}
