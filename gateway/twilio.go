package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/techagentng/chatrelay/config"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/logger"
	"github.com/techagentng/chatrelay/metrics"
	"github.com/twilio/twilio-go"
	conversations "github.com/twilio/twilio-go/rest/conversations/v1"
)

// conversationsAPI is the slice of the Conversations v1 client the gateway uses.
type conversationsAPI interface {
	CreateConversation(params *conversations.CreateConversationParams) (*conversations.ConversationsV1Conversation, error)
	FetchConversation(sid string) (*conversations.ConversationsV1Conversation, error)
	ListConversation(params *conversations.ListConversationParams) ([]conversations.ConversationsV1Conversation, error)
	ListParticipantConversation(params *conversations.ListParticipantConversationParams) ([]conversations.ConversationsV1ParticipantConversation, error)
	CreateConversationParticipant(conversationSid string, params *conversations.CreateConversationParticipantParams) (*conversations.ConversationsV1ConversationParticipant, error)
	DeleteConversationParticipant(conversationSid string, sid string, params *conversations.DeleteConversationParticipantParams) error
	ListConversationParticipant(conversationSid string, params *conversations.ListConversationParticipantParams) ([]conversations.ConversationsV1ConversationParticipant, error)
}

type TwilioGateway struct {
	api   conversationsAPI
	creds Credentials
}

var _ Gateway = (*TwilioGateway)(nil)

func NewTwilioGateway(c *config.Config) *TwilioGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: c.TwilioAccountSID,
		Password: c.TwilioAuthToken,
	})
	return newTwilioGateway(client.ConversationsV1, Credentials{
		AccountSID: c.TwilioAccountSID,
		APIKey:     c.TwilioAPIKey,
		APISecret:  c.TwilioAPISecret,
		ServiceSID: c.TwilioConversationsServiceSID,
		TTL:        c.ProviderTokenTTL,
	})
}

func newTwilioGateway(api conversationsAPI, creds Credentials) *TwilioGateway {
	return &TwilioGateway{api: api, creds: creds}
}

// call runs fn unless ctx is already done and records the outcome.
func call(ctx context.Context, operation string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		metrics.GatewayCalls.WithLabelValues(operation, "canceled").Inc()
		return apiError.Gateway(err)
	}
	start := time.Now()
	err := fn()
	outcome := "ok"
	if err != nil {
		outcome = string(apiError.KindOf(err))
	}
	metrics.GatewayCalls.WithLabelValues(operation, outcome).Inc()
	logger.Debugf("gateway %s %s in %s", operation, outcome, time.Since(start))
	return err
}

func (g *TwilioGateway) CreateConversation(ctx context.Context, friendlyName string) (*RemoteConversation, error) {
	var out *RemoteConversation
	err := call(ctx, "create_conversation", func() error {
		params := &conversations.CreateConversationParams{}
		if friendlyName != "" {
			params.SetFriendlyName(friendlyName)
		}
		resp, err := g.api.CreateConversation(params)
		if err != nil {
			return translate(err, "conversation not found")
		}
		out = fromConversation(resp)
		return nil
	})
	return out, err
}

func (g *TwilioGateway) FetchConversation(ctx context.Context, sid string) (*RemoteConversation, error) {
	var out *RemoteConversation
	err := call(ctx, "fetch_conversation", func() error {
		resp, err := g.api.FetchConversation(sid)
		if err != nil {
			return translate(err, "conversation not found")
		}
		out = fromConversation(resp)
		return nil
	})
	return out, err
}

func (g *TwilioGateway) ListConversations(ctx context.Context, opts ListOptions) ([]RemoteConversation, error) {
	opts = opts.withDefaults()
	out := []RemoteConversation{}
	err := call(ctx, "list_conversations", func() error {
		params := &conversations.ListConversationParams{}
		params.SetPageSize(opts.PageSize)
		params.SetLimit(opts.Limit)
		resp, err := g.api.ListConversation(params)
		if err != nil {
			return translate(err, "conversations not found")
		}
		for i := range resp {
			out = append(out, *fromConversation(&resp[i]))
		}
		return nil
	})
	return out, err
}

// ListConversationsForIdentity lists the conversations identity participates in, filtered provider side.
func (g *TwilioGateway) ListConversationsForIdentity(ctx context.Context, identity string, opts ListOptions) ([]RemoteConversation, error) {
	opts = opts.withDefaults()
	out := []RemoteConversation{}
	err := call(ctx, "list_identity_conversations", func() error {
		params := &conversations.ListParticipantConversationParams{}
		params.SetIdentity(identity)
		params.SetPageSize(opts.PageSize)
		params.SetLimit(opts.Limit)
		resp, err := g.api.ListParticipantConversation(params)
		if err != nil {
			return translate(err, "identity not found")
		}
		for _, pc := range resp {
			rc := RemoteConversation{
				Sid:          deref(pc.ConversationSid),
				FriendlyName: pc.ConversationFriendlyName,
			}
			if pc.ConversationDateCreated != nil {
				rc.DateCreated = *pc.ConversationDateCreated
			}
			out = append(out, rc)
		}
		return nil
	})
	return out, err
}

func (g *TwilioGateway) AddParticipant(ctx context.Context, conversationSid, identity string, attributes map[string]interface{}) (*RemoteParticipant, error) {
	var out *RemoteParticipant
	err := call(ctx, "add_participant", func() error {
		if attributes == nil {
			attributes = map[string]interface{}{}
		}
		raw, err := json.Marshal(attributes)
		if err != nil {
			return apiError.Validation("participant attributes are not serializable")
		}
		params := &conversations.CreateConversationParticipantParams{}
		params.SetIdentity(identity)
		params.SetAttributes(string(raw))
		resp, err := g.api.CreateConversationParticipant(conversationSid, params)
		if err != nil {
			return translate(err, "conversation not found")
		}
		out = fromParticipant(resp, conversationSid)
		return nil
	})
	return out, err
}

func (g *TwilioGateway) RemoveParticipant(ctx context.Context, conversationSid, participantSid string) error {
	return call(ctx, "remove_participant", func() error {
		err := g.api.DeleteConversationParticipant(conversationSid, participantSid, &conversations.DeleteConversationParticipantParams{})
		return translate(err, "participant not found")
	})
}

func (g *TwilioGateway) ListParticipants(ctx context.Context, conversationSid string) ([]RemoteParticipant, error) {
	out := []RemoteParticipant{}
	err := call(ctx, "list_participants", func() error {
		params := &conversations.ListConversationParticipantParams{}
		params.SetPageSize(DefaultPageSize)
		resp, err := g.api.ListConversationParticipant(conversationSid, params)
		if err != nil {
			return translate(err, "conversation not found")
		}
		for i := range resp {
			out = append(out, *fromParticipant(&resp[i], conversationSid))
		}
		return nil
	})
	return out, err
}

func (g *TwilioGateway) AccessToken(identity string) (string, error) {
	token, err := signAccessToken(g.creds, identity)
	if err != nil {
		return "", apiError.Internal(err)
	}
	return token, nil
}

func fromConversation(c *conversations.ConversationsV1Conversation) *RemoteConversation {
	rc := &RemoteConversation{
		Sid:          deref(c.Sid),
		FriendlyName: c.FriendlyName,
	}
	if c.DateCreated != nil {
		rc.DateCreated = *c.DateCreated
	}
	return rc
}

func fromParticipant(p *conversations.ConversationsV1ConversationParticipant, conversationSid string) *RemoteParticipant {
	rp := &RemoteParticipant{
		Sid:             deref(p.Sid),
		ConversationSid: deref(p.ConversationSid),
		Identity:        deref(p.Identity),
		Attributes:      map[string]interface{}{},
	}
	if rp.ConversationSid == "" {
		rp.ConversationSid = conversationSid
	}
	if p.Attributes != nil && *p.Attributes != "" {
		if err := json.Unmarshal([]byte(*p.Attributes), &rp.Attributes); err != nil {
			logger.Warnf("participant %s has non-JSON attributes: %v", rp.Sid, err)
		}
	}
	return rp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
