package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/logger"
	"github.com/techagentng/chatrelay/models"
)

// JSON writes the standard message/data/errors body.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	body := gin.H{
		"message": message,
		"data":    data,
		"status":  http.StatusText(status),
	}
	if err != nil {
		public := apiError.Public(err)
		if full := err.Error(); full != public {
			logger.Warnf("%s: %s", apiError.KindOf(err), full)
		}
		body["errors"] = public
		body["errorKind"] = apiError.KindOf(err)
	}
	c.JSON(status, body)
}

// HandleErrors picks the status from the error kind.
func HandleErrors(c *gin.Context, err error) {
	JSON(c, "", apiError.StatusForKind(apiError.KindOf(err)), nil, err)
}

// Envelope writes a conversation operation result. Failures carry the status of their kind.
func Envelope[T any](c *gin.Context, successStatus int, env models.Envelope[T]) {
	status := successStatus
	if !env.Success {
		status = apiError.StatusForKind(env.ErrorKind)
	}
	c.JSON(status, env)
}
