package gateway

import (
	"time"

	"github.com/twilio/twilio-go/client/jwt"
)

// Credentials are the provider-issued signing keys for client access tokens.
type Credentials struct {
	AccountSID string
	APIKey     string
	APISecret  string
	ServiceSID string
	TTL        time.Duration
}

// signAccessToken builds a chat-scoped access token locally; no provider round trip.
func signAccessToken(creds Credentials, identity string) (string, error) {
	ttl := creds.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	token := jwt.CreateAccessToken(jwt.AccessTokenParams{
		AccountSid:    creds.AccountSID,
		SigningKeySid: creds.APIKey,
		Secret:        creds.APISecret,
		Identity:      identity,
		Ttl:           ttl.Seconds(),
	})
	token.AddGrant(&jwt.ChatGrant{ServiceSid: creds.ServiceSID})
	return token.ToJwt()
}
