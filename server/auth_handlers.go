package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/chatrelay/logger"
	"github.com/techagentng/chatrelay/models"
	"github.com/techagentng/chatrelay/server/response"
)

func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}

		resp, err := s.AuthService.Register(c.Request.Context(), &req)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		if s.Mail != nil {
			if _, err := s.Mail.SendWelcomeMessage(c.Request.Context(), resp.User.Email, resp.User.Username); err != nil {
				logger.Warnf("sending welcome email to %s: %v", resp.User.Email, err)
			}
		}

		c.JSON(http.StatusCreated, resp)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}

		resp, err := s.AuthService.Login(c.Request.Context(), &req)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// handleLogout revokes the caller's session token.
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _, err := GetValuesFromContext(c)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, err)
			return
		}

		if err := s.AuthService.Logout(c.Request.Context(), token, tokenExpiry(c)); err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
	}
}

// handleProviderToken returns a fresh provider access token as plain text.
func (s *Server) handleProviderToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, user, err := GetValuesFromContext(c)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, err)
			return
		}

		token, err := s.AuthService.ProviderToken(c.Request.Context(), user.ID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		c.String(http.StatusOK, token)
	}
}
