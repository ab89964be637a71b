package server

import (
	"time"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/models"
)

// decode binds a JSON body. An empty body leaves v at its zero value.
func decode(c *gin.Context, v interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil {
		return errs.Validation("invalid request body: " + err.Error())
	}
	return nil
}

// GetValuesFromContext returns what Authorize stored for the request.
func GetValuesFromContext(c *gin.Context) (string, *models.User, error) {
	tokenI, ok := c.Get("access_token")
	if !ok {
		return "", nil, errs.ErrUnauthorized
	}
	userI, ok := c.Get("user")
	if !ok {
		return "", nil, errs.ErrUnauthorized
	}
	token, ok := tokenI.(string)
	if !ok {
		return "", nil, errs.ErrInternalServerError
	}
	user, ok := userI.(*models.User)
	if !ok {
		return "", nil, errs.ErrInternalServerError
	}
	return token, user, nil
}

func tokenExpiry(c *gin.Context) time.Time {
	if v, ok := c.Get("token_expires_at"); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Now().Add(24 * time.Hour)
}
