package models

import "time"

// Conversation mirrors a provider conversation. ID is the provider SID.
type Conversation struct {
	ID           string        `json:"id" gorm:"primaryKey;size:34"`
	FriendlyName *string       `json:"friendlyName"`
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Participant mirrors a provider participant. Identity always equals the user's Identity.
type Participant struct {
	ID             string    `json:"id" gorm:"primaryKey;size:34"`
	Identity       string    `json:"identity" gorm:"index;not null"`
	ConversationID string    `json:"conversationId" gorm:"index;not null"`
	UserID         string    `json:"userId" gorm:"index;not null"`
	User           *User     `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CreateConversationRequest struct {
	FriendlyName *string  `json:"friendlyName" validate:"omitempty,max=256"`
	Participants []string `json:"participants" validate:"omitempty,dive,required"`
}

type AddParticipantsRequest struct {
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
}

type ConversationResponse struct {
	Sid          string    `json:"sid"`
	FriendlyName *string   `json:"friendlyName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ParticipantResponse struct {
	Sid             string `json:"sid"`
	Identity        string `json:"identity"`
	ConversationSid string `json:"conversationSid"`
}

// ParticipantResult reports one item of a batch add.
type ParticipantResult struct {
	UserID      string               `json:"userId"`
	Participant *ParticipantResponse `json:"participant,omitempty"`
	Error       string               `json:"error,omitempty"`
	ErrorKind   string               `json:"errorKind,omitempty"`
}

// ListMeta describes one listing. Limit is the cap applied to the provider read, zero when uncapped.
// Truncated is set when the cap was reached and more conversations may exist.
type ListMeta struct {
	Returned  int  `json:"returned"`
	Limit     int  `json:"limit,omitempty"`
	Truncated bool `json:"truncated"`
}

type ConversationList struct {
	Conversations []ConversationResponse `json:"conversations"`
	Meta          ListMeta               `json:"meta"`
}

type ConversationDetail struct {
	Conversation ConversationResponse  `json:"conversation"`
	Participants []ParticipantResponse `json:"participants"`
}

type CreatedConversation struct {
	Conversation ConversationResponse  `json:"conversation"`
	Participants []ParticipantResponse `json:"participants"`
	Results      []ParticipantResult   `json:"results"`
}

type ParticipantList struct {
	Participants []ParticipantResponse `json:"participants"`
}

type AddedParticipants struct {
	Participants []ParticipantResponse `json:"participants"`
	Results      []ParticipantResult   `json:"results"`
}
