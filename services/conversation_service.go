package services

import (
	"context"
	"strings"

	"github.com/techagentng/chatrelay/config"
	"github.com/techagentng/chatrelay/db"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/gateway"
	"github.com/techagentng/chatrelay/logger"
	"github.com/techagentng/chatrelay/metrics"
	"github.com/techagentng/chatrelay/models"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFriendlyName = "New conversation"

	// upper bound on concurrent provider calls for one batch
	maxConcurrentAdds = 8
)

// ConversationService composes the provider gateway and the local mirror.
// The provider is the source of truth; mirror writes are best-effort.
type ConversationService interface {
	CreateConversation(ctx context.Context, creator *models.User, req *models.CreateConversationRequest) models.Envelope[*models.CreatedConversation]
	AddParticipants(ctx context.Context, conversationSid string, req *models.AddParticipantsRequest) models.Envelope[*models.AddedParticipants]
	RemoveParticipant(ctx context.Context, conversationSid, participantSid string) models.Envelope[any]
	GetConversation(ctx context.Context, conversationSid string) models.Envelope[*models.ConversationDetail]
	ListParticipants(ctx context.Context, conversationSid string) models.Envelope[*models.ParticipantList]
	ListConversations(ctx context.Context, user *models.User) models.Envelope[*models.ConversationList]
}

type conversationService struct {
	Config   *config.Config
	convRepo db.ConversationRepository
	authRepo db.AuthRepository
	gateway  gateway.Gateway
}

func NewConversationService(convRepo db.ConversationRepository, authRepo db.AuthRepository, gw gateway.Gateway, conf *config.Config) ConversationService {
	return &conversationService{
		Config:   conf,
		convRepo: convRepo,
		authRepo: authRepo,
		gateway:  gw,
	}
}

// CreateConversation creates the conversation remotely, joins the creator, mirrors both
// locally and then adds any requested participants. A failure after the remote create
// leaves the remote conversation in place.
func (s *conversationService) CreateConversation(ctx context.Context, creator *models.User, req *models.CreateConversationRequest) models.Envelope[*models.CreatedConversation] {
	if req == nil {
		req = &models.CreateConversationRequest{}
	}
	if err := validateRequest(req); err != nil {
		return models.Fail[*models.CreatedConversation](err)
	}

	name := DefaultFriendlyName
	if req.FriendlyName != nil && strings.TrimSpace(*req.FriendlyName) != "" {
		name = strings.TrimSpace(*req.FriendlyName)
	}

	remote, err := s.gateway.CreateConversation(ctx, name)
	if err != nil {
		logger.Errorf("create conversation: %v", err)
		return models.Fail[*models.CreatedConversation](err)
	}
	if remote.FriendlyName == nil {
		remote.FriendlyName = &name
	}

	creatorParticipant, err := s.gateway.AddParticipant(ctx, remote.Sid, creator.Identity, participantAttributes(creator))
	if err != nil {
		logger.Errorf("create conversation: conversation %s left without its creator: %v", remote.Sid, err)
		return models.Fail[*models.CreatedConversation](err)
	}

	s.mirrorConversation(ctx, remote)
	s.mirrorParticipant(ctx, creatorParticipant, creator)

	creatorView := toParticipantResponse(creatorParticipant)
	result := &models.CreatedConversation{
		Conversation: toConversationResponse(*remote),
		Participants: []models.ParticipantResponse{creatorView},
		Results:      []models.ParticipantResult{},
	}

	others := make([]string, 0, len(req.Participants))
	for _, id := range req.Participants {
		if id == creator.ID {
			view := creatorView
			result.Results = append(result.Results, models.ParticipantResult{UserID: id, Participant: &view})
			continue
		}
		others = append(others, id)
	}
	if len(others) > 0 {
		added := s.addParticipants(ctx, remote.Sid, others)
		result.Participants = append(result.Participants, added.Participants...)
		result.Results = append(result.Results, added.Results...)
	}

	return models.Ok(result)
}

// AddParticipants adds every user concurrently and reports each item separately.
// A failing item never cancels or fails the others.
func (s *conversationService) AddParticipants(ctx context.Context, conversationSid string, req *models.AddParticipantsRequest) models.Envelope[*models.AddedParticipants] {
	if req == nil {
		req = &models.AddParticipantsRequest{}
	}
	if err := validateRequest(req); err != nil {
		return models.Fail[*models.AddedParticipants](err)
	}
	return models.Ok(s.addParticipants(ctx, conversationSid, req.Participants))
}

func (s *conversationService) addParticipants(ctx context.Context, conversationSid string, userIDs []string) *models.AddedParticipants {
	results := make([]models.ParticipantResult, len(userIDs))

	var g errgroup.Group
	g.SetLimit(maxConcurrentAdds)
	for i, userID := range userIDs {
		i, userID := i, userID
		g.Go(func() error {
			results[i] = s.addOne(ctx, conversationSid, userID)
			return nil
		})
	}
	_ = g.Wait()

	out := &models.AddedParticipants{
		Participants: []models.ParticipantResponse{},
		Results:      results,
	}
	for _, r := range results {
		if r.Participant != nil {
			out.Participants = append(out.Participants, *r.Participant)
		}
	}
	return out
}

func (s *conversationService) addOne(ctx context.Context, conversationSid, userID string) models.ParticipantResult {
	result := models.ParticipantResult{UserID: userID}

	user, err := s.authRepo.FindUserByID(ctx, userID)
	if err != nil {
		metrics.BatchItems.WithLabelValues("failed").Inc()
		if apiError.KindOf(err) == apiError.KindNotFound {
			err = apiError.NotFound("user "+userID+" not found", nil)
		}
		result.Error = apiError.Public(err)
		result.ErrorKind = string(apiError.KindOf(err))
		return result
	}

	remote, err := s.gateway.AddParticipant(ctx, conversationSid, user.Identity, participantAttributes(user))
	if err != nil {
		metrics.BatchItems.WithLabelValues("failed").Inc()
		logger.Warnf("add participant %s to %s: %v", userID, conversationSid, err)
		result.Error = apiError.Public(err)
		result.ErrorKind = string(apiError.KindOf(err))
		return result
	}

	s.mirrorParticipant(ctx, remote, user)
	metrics.BatchItems.WithLabelValues("added").Inc()
	view := toParticipantResponse(remote)
	result.Participant = &view
	return result
}

// RemoveParticipant removes remotely, then drops the mirrored row.
func (s *conversationService) RemoveParticipant(ctx context.Context, conversationSid, participantSid string) models.Envelope[any] {
	if err := s.gateway.RemoveParticipant(ctx, conversationSid, participantSid); err != nil {
		return models.Fail[any](err)
	}
	if err := s.convRepo.DeleteParticipant(ctx, conversationSid, participantSid); err != nil {
		metrics.MirrorFailures.WithLabelValues("delete_participant").Inc()
		logger.Warnf("mirror: removing participant %s from %s: %v", participantSid, conversationSid, err)
	}
	return models.Ok[any](nil)
}

func (s *conversationService) GetConversation(ctx context.Context, conversationSid string) models.Envelope[*models.ConversationDetail] {
	var (
		remote       *gateway.RemoteConversation
		participants []gateway.RemoteParticipant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		remote, err = s.gateway.FetchConversation(gctx, conversationSid)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.gateway.ListParticipants(gctx, conversationSid)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Fail[*models.ConversationDetail](err)
	}

	return models.Ok(&models.ConversationDetail{
		Conversation: toConversationResponse(*remote),
		Participants: toParticipantResponses(participants),
	})
}

func (s *conversationService) ListParticipants(ctx context.Context, conversationSid string) models.Envelope[*models.ParticipantList] {
	participants, err := s.gateway.ListParticipants(ctx, conversationSid)
	if err != nil {
		return models.Fail[*models.ParticipantList](err)
	}
	return models.Ok(&models.ParticipantList{Participants: toParticipantResponses(participants)})
}

// ListConversations lists the conversations the user participates in.
func (s *conversationService) ListConversations(ctx context.Context, user *models.User) models.Envelope[*models.ConversationList] {
	list := &models.ConversationList{Conversations: []models.ConversationResponse{}}
	limit := 0

	if s.Config != nil && s.Config.ConversationListSource == config.ListSourceMirror {
		rows, err := s.convRepo.FindConversationsByIdentity(ctx, user.Identity)
		if err != nil {
			return models.Fail[*models.ConversationList](apiError.Internal(err))
		}
		for _, c := range rows {
			list.Conversations = append(list.Conversations, models.ConversationResponse{
				Sid:          c.ID,
				FriendlyName: c.FriendlyName,
				CreatedAt:    c.CreatedAt,
			})
		}
	} else {
		limit = gateway.DefaultLimit
		if s.Config != nil && s.Config.ConversationListLimit > 0 {
			limit = s.Config.ConversationListLimit
		}
		remote, err := s.gateway.ListConversationsForIdentity(ctx, user.Identity, gateway.ListOptions{Limit: limit})
		if err != nil {
			return models.Fail[*models.ConversationList](err)
		}
		for _, c := range remote {
			list.Conversations = append(list.Conversations, toConversationResponse(c))
		}
	}

	list.Meta = models.ListMeta{
		Returned:  len(list.Conversations),
		Limit:     limit,
		Truncated: limit > 0 && len(list.Conversations) >= limit,
	}
	return models.Ok(list)
}

func (s *conversationService) mirrorConversation(ctx context.Context, remote *gateway.RemoteConversation) {
	conv := &models.Conversation{ID: remote.Sid, FriendlyName: remote.FriendlyName}
	if !remote.DateCreated.IsZero() {
		conv.CreatedAt = remote.DateCreated
	}
	if err := s.convRepo.CreateConversation(ctx, conv); err != nil {
		metrics.MirrorFailures.WithLabelValues("create_conversation").Inc()
		logger.Warnf("mirror: conversation %s: %v", remote.Sid, err)
	}
}

func (s *conversationService) mirrorParticipant(ctx context.Context, remote *gateway.RemoteParticipant, user *models.User) {
	p := &models.Participant{
		ID:             remote.Sid,
		Identity:       user.Identity,
		ConversationID: remote.ConversationSid,
		UserID:         user.ID,
	}
	if err := s.convRepo.CreateParticipant(ctx, p); err != nil {
		metrics.MirrorFailures.WithLabelValues("create_participant").Inc()
		logger.Warnf("mirror: participant %s in %s: %v", remote.Sid, remote.ConversationSid, err)
	}
}

func participantAttributes(u *models.User) map[string]interface{} {
	return map[string]interface{}{"userId": u.ID}
}

func toConversationResponse(c gateway.RemoteConversation) models.ConversationResponse {
	return models.ConversationResponse{
		Sid:          c.Sid,
		FriendlyName: c.FriendlyName,
		CreatedAt:    c.DateCreated,
	}
}

func toParticipantResponse(p *gateway.RemoteParticipant) models.ParticipantResponse {
	return models.ParticipantResponse{
		Sid:             p.Sid,
		Identity:        p.Identity,
		ConversationSid: p.ConversationSid,
	}
}

func toParticipantResponses(ps []gateway.RemoteParticipant) []models.ParticipantResponse {
	out := make([]models.ParticipantResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toParticipantResponse(&ps[i]))
	}
	return out
}
