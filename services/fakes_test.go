package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/techagentng/chatrelay/config"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/gateway"
	"github.com/techagentng/chatrelay/models"
)

type fakeAuthRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: map[string]*models.User{}}
}

func (f *fakeAuthRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeAuthRepo) IsEmailExist(ctx context.Context, email string) error {
	if _, err := f.FindUserByEmail(ctx, email); err == nil {
		return apiError.ErrEmailExists
	}
	return nil
}

func (f *fakeAuthRepo) IsUsernameExist(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return apiError.ErrUsernameExists
		}
	}
	return nil
}

func (f *fakeAuthRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apiError.NotFound("user not found", nil)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeAuthRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeAuthRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeAuthRepo) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apiError.NotFound("user not found", nil)
}

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: map[string]time.Time{}}
}

func (f *fakeBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = expiresAt
	return nil
}

func (f *fakeBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	exp, ok := f.revoked[token]
	return ok && exp.After(time.Now()), nil
}

type fakeConvRepo struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	participants  map[string]*models.Participant
	err           error
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{conversations: map[string]*models.Conversation{}, participants: map[string]*models.Participant{}}
}

func (f *fakeConvRepo) CreateConversation(ctx context.Context, c *models.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *c
	f.conversations[c.ID] = &cp
	return nil
}

func (f *fakeConvRepo) FindConversation(ctx context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conversations[id]
	if !ok {
		return nil, apiError.NotFound("conversation not found", nil)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConvRepo) CreateParticipant(ctx context.Context, p *models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *p
	f.participants[p.ID] = &cp
	return nil
}

func (f *fakeConvRepo) FindParticipantsByConversation(ctx context.Context, conversationID string) ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Participant{}
	for _, p := range f.participants {
		if p.ConversationID == conversationID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeConvRepo) FindConversationsByIdentity(ctx context.Context, identity string) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Conversation{}
	seen := map[string]bool{}
	for _, p := range f.participants {
		if p.Identity == identity && !seen[p.ConversationID] {
			if c, ok := f.conversations[p.ConversationID]; ok {
				out = append(out, *c)
				seen[c.ID] = true
			}
		}
	}
	return out, nil
}

func (f *fakeConvRepo) DeleteParticipant(ctx context.Context, conversationID, participantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.participants, participantID)
	return nil
}

// fakeGateway is an in-memory provider.
type fakeGateway struct {
	mu            sync.Mutex
	seq           int
	conversations map[string]*gateway.RemoteConversation
	participants  map[string][]gateway.RemoteParticipant
	failIdentity  map[string]error
	createErr     error
	addCalls      int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		conversations: map[string]*gateway.RemoteConversation{},
		participants:  map[string][]gateway.RemoteParticipant{},
		failIdentity:  map[string]error{},
	}
}

func (f *fakeGateway) CreateConversation(ctx context.Context, friendlyName string) (*gateway.RemoteConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	name := friendlyName
	c := &gateway.RemoteConversation{Sid: fmt.Sprintf("CH%03d", f.seq), FriendlyName: &name, DateCreated: time.Now()}
	f.conversations[c.Sid] = c
	cp := *c
	return &cp, nil
}

func (f *fakeGateway) FetchConversation(ctx context.Context, sid string) (*gateway.RemoteConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conversations[sid]
	if !ok {
		return nil, apiError.NotFound("conversation not found", nil)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeGateway) ListConversations(ctx context.Context, opts gateway.ListOptions) ([]gateway.RemoteConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []gateway.RemoteConversation{}
	for _, c := range f.conversations {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeGateway) ListConversationsForIdentity(ctx context.Context, identity string, opts gateway.ListOptions) ([]gateway.RemoteConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []gateway.RemoteConversation{}
	for sid, ps := range f.participants {
		for _, p := range ps {
			if p.Identity == identity {
				out = append(out, *f.conversations[sid])
				break
			}
		}
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeGateway) AddParticipant(ctx context.Context, conversationSid, identity string, attributes map[string]interface{}) (*gateway.RemoteParticipant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if err, ok := f.failIdentity[identity]; ok {
		return nil, err
	}
	if _, ok := f.conversations[conversationSid]; !ok {
		return nil, apiError.NotFound("conversation not found", nil)
	}
	f.seq++
	p := gateway.RemoteParticipant{
		Sid:             fmt.Sprintf("MB%03d", f.seq),
		ConversationSid: conversationSid,
		Identity:        identity,
		Attributes:      attributes,
	}
	f.participants[conversationSid] = append(f.participants[conversationSid], p)
	return &p, nil
}

func (f *fakeGateway) RemoveParticipant(ctx context.Context, conversationSid, participantSid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ps := f.participants[conversationSid]
	for i, p := range ps {
		if p.Sid == participantSid {
			f.participants[conversationSid] = append(ps[:i], ps[i+1:]...)
			return nil
		}
	}
	return apiError.NotFound("participant not found", nil)
}

func (f *fakeGateway) ListParticipants(ctx context.Context, conversationSid string) ([]gateway.RemoteParticipant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conversations[conversationSid]; !ok {
		return nil, apiError.NotFound("conversation not found", nil)
	}
	return append([]gateway.RemoteParticipant{}, f.participants[conversationSid]...), nil
}

func (f *fakeGateway) AccessToken(identity string) (string, error) {
	return "provider-token-" + identity, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret",
		SessionTTL:             24 * time.Hour,
		ConversationListSource: config.ListSourceRemote,
	}
}
