// Package gateway is the only place that talks to the conversation provider's network API.
package gateway

import (
	"context"
	"time"
)

type RemoteConversation struct {
	Sid          string
	FriendlyName *string
	DateCreated  time.Time
}

type RemoteParticipant struct {
	Sid             string
	ConversationSid string
	Identity        string
	Attributes      map[string]interface{}
}

// ListOptions bounds a list call. Zero values fall back to the defaults below.
type ListOptions struct {
	Limit    int
	PageSize int
}

const (
	DefaultPageSize = 50
	DefaultLimit    = 200
)

func (o ListOptions) withDefaults() ListOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.PageSize > o.Limit {
		o.PageSize = o.Limit
	}
	return o
}

// Gateway proxies conversation and participant operations to the provider.
// Unknown conversations or participants fail with a not_found error, every
// other provider failure with a gateway error. Nothing is retried.
type Gateway interface {
	CreateConversation(ctx context.Context, friendlyName string) (*RemoteConversation, error)
	FetchConversation(ctx context.Context, sid string) (*RemoteConversation, error)
	ListConversations(ctx context.Context, opts ListOptions) ([]RemoteConversation, error)
	ListConversationsForIdentity(ctx context.Context, identity string, opts ListOptions) ([]RemoteConversation, error)
	AddParticipant(ctx context.Context, conversationSid, identity string, attributes map[string]interface{}) (*RemoteParticipant, error)
	RemoveParticipant(ctx context.Context, conversationSid, participantSid string) error
	ListParticipants(ctx context.Context, conversationSid string) ([]RemoteParticipant, error)
	AccessToken(identity string) (string, error)
}
