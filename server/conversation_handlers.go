package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/chatrelay/models"
	"github.com/techagentng/chatrelay/server/response"
)

func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, user, err := GetValuesFromContext(c)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, err)
			return
		}
		response.Envelope(c, http.StatusOK, s.ConversationService.ListConversations(c.Request.Context(), user))
	}
}

func (s *Server) handleCreateConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, user, err := GetValuesFromContext(c)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, err)
			return
		}

		var req models.CreateConversationRequest
		if err := decode(c, &req); err != nil {
			response.Envelope(c, http.StatusCreated, models.Fail[*models.CreatedConversation](err))
			return
		}
		response.Envelope(c, http.StatusCreated, s.ConversationService.CreateConversation(c.Request.Context(), user, &req))
	}
}

func (s *Server) handleGetConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Envelope(c, http.StatusOK, s.ConversationService.GetConversation(c.Request.Context(), c.Param("sid")))
	}
}

func (s *Server) handleListParticipants() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Envelope(c, http.StatusOK, s.ConversationService.ListParticipants(c.Request.Context(), c.Param("sid")))
	}
}

func (s *Server) handleAddParticipants() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddParticipantsRequest
		if err := decode(c, &req); err != nil {
			response.Envelope(c, http.StatusOK, models.Fail[*models.AddedParticipants](err))
			return
		}
		response.Envelope(c, http.StatusOK, s.ConversationService.AddParticipants(c.Request.Context(), c.Param("sid"), &req))
	}
}

func (s *Server) handleRemoveParticipant() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Envelope(c, http.StatusOK, s.ConversationService.RemoveParticipant(c.Request.Context(), c.Param("sid"), c.Param("pid")))
	}
}
