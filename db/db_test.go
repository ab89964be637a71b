package db

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *GormDB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive across queries
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate(gdb))
	return &GormDB{DB: gdb}
}

func seedUser(t *testing.T, repo AuthRepository, email, username, identity string) *models.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), &models.User{
		Email:          email,
		Username:       username,
		HashedPassword: "hash",
		Identity:       identity,
	})
	require.NoError(t, err)
	return u
}

func TestAuthRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAuthRepo(newTestDB(t))

	u := seedUser(t, repo, "jane@example.com", "Jane", "ident-jane")
	require.NotEmpty(t, u.ID)

	byID, err := repo.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", byID.Email)

	byEmail, err := repo.FindUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := repo.FindUserByUsername(ctx, "Jane")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = repo.FindUserByUsername(ctx, "jane@example.com")
	assert.Equal(t, apiError.KindNotFound, apiError.KindOf(err))

	_, err = repo.FindUserByID(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, apiError.KindNotFound, apiError.KindOf(err))
}

func TestAuthRepo_LookupsStayOnTheirColumn(t *testing.T) {
	ctx := context.Background()
	repo := NewAuthRepo(newTestDB(t))

	// sorts before bob by primary key and uses bob's email as a username
	mallory, err := repo.CreateUser(ctx, &models.User{
		Model:          models.Model{ID: "00000000-mallory"},
		Email:          "mallory@example.com",
		Username:       "bob@example.com",
		HashedPassword: "hash",
		Identity:       "ident-mallory",
	})
	require.NoError(t, err)
	bob, err := repo.CreateUser(ctx, &models.User{
		Model:          models.Model{ID: "ffffffff-bob"},
		Email:          "bob@example.com",
		Username:       "bob",
		HashedPassword: "hash",
		Identity:       "ident-bob",
	})
	require.NoError(t, err)

	byEmail, err := repo.FindUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, byEmail.ID)

	byName, err := repo.FindUserByUsername(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, mallory.ID, byName.ID)
}

func TestAuthRepo_ExistenceChecks(t *testing.T) {
	ctx := context.Background()
	repo := NewAuthRepo(newTestDB(t))
	seedUser(t, repo, "jane@example.com", "Jane", "ident-jane")

	assert.ErrorIs(t, repo.IsEmailExist(ctx, "jane@example.com"), apiError.ErrEmailExists)
	assert.NoError(t, repo.IsEmailExist(ctx, "bob@example.com"))
	assert.ErrorIs(t, repo.IsUsernameExist(ctx, "Jane"), apiError.ErrUsernameExists)
	assert.NoError(t, repo.IsUsernameExist(ctx, "Bob"))
}

func TestConversationRepo_MirrorLifecycle(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	users := NewAuthRepo(gdb)
	repo := NewConversationRepo(gdb)

	jane := seedUser(t, users, "jane@example.com", "Jane", "ident-jane")
	bob := seedUser(t, users, "bob@example.com", "Bob", "ident-bob")

	name := "Team Chat"
	require.NoError(t, repo.CreateConversation(ctx, &models.Conversation{ID: "CH1", FriendlyName: &name}))
	require.NoError(t, repo.CreateParticipant(ctx, &models.Participant{ID: "MB1", Identity: jane.Identity, ConversationID: "CH1", UserID: jane.ID}))
	require.NoError(t, repo.CreateParticipant(ctx, &models.Participant{ID: "MB2", Identity: bob.Identity, ConversationID: "CH1", UserID: bob.ID}))
	// replays are ignored
	require.NoError(t, repo.CreateParticipant(ctx, &models.Participant{ID: "MB2", Identity: bob.Identity, ConversationID: "CH1", UserID: bob.ID}))

	conv, err := repo.FindConversation(ctx, "CH1")
	require.NoError(t, err)
	require.NotNil(t, conv.FriendlyName)
	assert.Equal(t, "Team Chat", *conv.FriendlyName)
	assert.Len(t, conv.Participants, 2)

	participants, err := repo.FindParticipantsByConversation(ctx, "CH1")
	require.NoError(t, err)
	assert.Len(t, participants, 2)

	convs, err := repo.FindConversationsByIdentity(ctx, bob.Identity)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "CH1", convs[0].ID)

	require.NoError(t, repo.DeleteParticipant(ctx, "CH1", "MB2"))
	convs, err = repo.FindConversationsByIdentity(ctx, bob.Identity)
	require.NoError(t, err)
	assert.Empty(t, convs)

	_, err = repo.FindConversation(ctx, "CH404")
	assert.Equal(t, apiError.KindNotFound, apiError.KindOf(err))
}

func TestConversationRepo_NoConversations(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))
	convs, err := repo.FindConversationsByIdentity(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestBlacklistRepo(t *testing.T) {
	ctx := context.Background()
	bl := NewBlacklistRepo(newTestDB(t))

	ok, err := bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.Add(ctx, "tok", time.Now().Add(time.Hour)))
	require.NoError(t, bl.Add(ctx, "tok", time.Now().Add(time.Hour)))
	ok, err = bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, bl.Add(ctx, "old", time.Now().Add(-time.Minute)))
	ok, err = bl.Contains(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
}
