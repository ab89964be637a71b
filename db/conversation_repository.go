package db

import (
	"context"

	"github.com/pkg/errors"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository is the local mirror of provider conversations and participants.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conversation *models.Conversation) error
	FindConversation(ctx context.Context, id string) (*models.Conversation, error)
	CreateParticipant(ctx context.Context, participant *models.Participant) error
	FindParticipantsByConversation(ctx context.Context, conversationID string) ([]models.Participant, error)
	FindConversationsByIdentity(ctx context.Context, identity string) ([]models.Conversation, error)
	DeleteParticipant(ctx context.Context, conversationID, participantID string) error
}

type conversationRepo struct {
	DB *gorm.DB
}

func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

// CreateConversation upserts on the provider SID so a replayed mirror write is harmless.
func (r *conversationRepo) CreateConversation(ctx context.Context, conversation *models.Conversation) error {
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoUpdates: clause.AssignmentColumns([]string{"friendly_name", "updated_at"})}).
		Omit(clause.Associations).
		Create(conversation).Error
	return errors.Wrap(err, "mirror conversation")
}

func (r *conversationRepo) FindConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.DB.WithContext(ctx).Preload("Participants").Where("id = ?", id).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFound("conversation not found", err)
		}
		return nil, errors.Wrap(err, "find conversation")
	}
	return &conversation, nil
}

func (r *conversationRepo) CreateParticipant(ctx context.Context, participant *models.Participant) error {
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(participant).Error
	return errors.Wrap(err, "mirror participant")
}

func (r *conversationRepo) FindParticipantsByConversation(ctx context.Context, conversationID string) ([]models.Participant, error) {
	participants := []models.Participant{}
	err := r.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, errors.Wrap(err, "find participants")
	}
	return participants, nil
}

func (r *conversationRepo) FindConversationsByIdentity(ctx context.Context, identity string) ([]models.Conversation, error) {
	conversations := []models.Conversation{}
	err := r.DB.WithContext(ctx).
		Where("id IN (?)", r.DB.Model(&models.Participant{}).Select("conversation_id").Where("identity = ?", identity)).
		Order("created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, errors.Wrap(err, "find conversations by identity")
	}
	return conversations, nil
}

func (r *conversationRepo) DeleteParticipant(ctx context.Context, conversationID, participantID string) error {
	err := r.DB.WithContext(ctx).
		Where("id = ? AND conversation_id = ?", participantID, conversationID).
		Delete(&models.Participant{}).Error
	return errors.Wrap(err, "delete mirrored participant")
}
