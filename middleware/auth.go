package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/THURZIN2905/toperdido/logger"
	"github.com/THURZIN2905/toperdido/utils"
)

const (
	CtxUserID = "userID"
	CtxToken  = "authToken"
)

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(authHeader[7:])
	return raw, raw != ""
}

// OptionalAuthJWT attaches the caller's user id when a valid bearer token is
// present. Requests without a token, or with one that fails verification,
// continue as anonymous.
func OptionalAuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := utils.VerifyToken(secret, rawToken)
		if err != nil {
			logger.Logger.WithError(err).Debug("ignoring invalid bearer token")
			c.Next()
			return
		}

		uid, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil {
			logger.Logger.WithFields(logrus.Fields{"subject": claims.UserID}).Debug("ignoring token with non-numeric subject")
			c.Next()
			return
		}

		c.Set(CtxUserID, uint(uid))
		c.Set(CtxToken, rawToken)
		c.Next()
	}
}

// UserID returns the authenticated user id, or nil for anonymous requests.
func UserID(c *gin.Context) *uint {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return nil
	}
	uid, ok := v.(uint)
	if !ok {
		return nil
	}
	return &uid
}
