package server

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))
	s.defineRoutes(r)

	return r
}

func (s *Server) corsConfig() cors.Config {
	conf := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := strings.TrimSpace(s.Config.AccessControlAllowOrigin); origins != "" && origins != "*" {
		conf.AllowOrigins = strings.Split(origins, ",")
	} else {
		conf.AllowAllOrigins = true
		conf.AllowCredentials = false
	}
	return conf
}

func (s *Server) defineRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limitRate := limitRateForAuth(s.Config.AuthRateLimit)

	auth := router.Group("/auth")
	auth.POST("/register", limitRate, s.handleRegister())
	auth.POST("/login", limitRate, s.handleLogin())
	auth.POST("/logout", s.Authorize(), s.handleLogout())

	conversations := router.Group("/conversations")
	conversations.Use(s.Authorize())
	conversations.GET("", s.handleListConversations())
	conversations.POST("", s.handleCreateConversation())
	conversations.POST("/token", s.handleProviderToken())
	conversations.GET("/:sid", s.handleGetConversation())
	conversations.GET("/:sid/participants", s.handleListParticipants())
	conversations.POST("/:sid/participants", s.handleAddParticipants())
	conversations.DELETE("/:sid/participants/:pid", s.handleRemoveParticipant())
}
