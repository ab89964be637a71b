package gateway

import (
	"errors"
	"net/http"

	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/twilio/twilio-go/client"
)

// translate maps a provider failure onto the error taxonomy.
func translate(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	var restErr *client.TwilioRestError
	if errors.As(err, &restErr) && restErr.Status == http.StatusNotFound {
		return apiError.NotFound(notFoundMessage, err)
	}
	return apiError.Gateway(err)
}
