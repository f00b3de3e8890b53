package app

import (
	"net/http"

	"shelfshare/db"
	"shelfshare/models"
	"shelfshare/session"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "app_session"

const (
	ctxUserID = "userID"
	ctxUser   = "currentUser"
)

// AuthRequired resolves the session cookie to a user and puts both the id
// and the loaded user into the Gin context. Handlers never reach for any
// ambient global; they read the caller from here.
func AuthRequired(sess *session.Store, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(SessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := sess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = sess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		sess.Touch(c.Request.Context(), ck.Value)

		c.Set(ctxUserID, u.ID)
		c.Set(ctxUser, u)
		c.Next()
	}
}

// OptionalAuth loads the caller when a valid session is present but lets
// anonymous requests through. Used on public read views where privacy
// checks still want to know who is asking.
func OptionalAuth(sess *session.Store, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(SessionCookie)
		if err != nil || ck.Value == "" {
			c.Next()
			return
		}
		as, err := sess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.Next()
			return
		}
		if u, err := repo.FindUserByID(c.Request.Context(), as.UserID); err == nil {
			c.Set(ctxUserID, u.ID)
			c.Set(ctxUser, u)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil on optional-auth routes.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func CurrentUserID(c *gin.Context) string {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
