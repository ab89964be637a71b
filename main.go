package main

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/techagentng/chatrelay/cache"
	"github.com/techagentng/chatrelay/config"
	"github.com/techagentng/chatrelay/db"
	"github.com/techagentng/chatrelay/gateway"
	"github.com/techagentng/chatrelay/logger"
	"github.com/techagentng/chatrelay/mailingservices"
	"github.com/techagentng/chatrelay/metrics"
	"github.com/techagentng/chatrelay/server"
	"github.com/techagentng/chatrelay/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Init(conf.LogLevel)
	logger.Infof("log level %s", logger.LevelString())
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init(conf)

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	conversationRepo := db.NewConversationRepo(gormDB)

	blacklist := db.NewBlacklistRepo(gormDB)
	if conf.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, conf.RedisURL)
		cancel()
		if err != nil {
			logger.Warnf("redis unavailable, using database token blacklist: %v", err)
		} else {
			blacklist = cache.NewRedisBlacklist(client)
		}
	}

	twilioGateway := gateway.NewTwilioGateway(conf)

	authService := services.NewAuthService(authRepo, blacklist, twilioGateway, conf)
	conversationService := services.NewConversationService(conversationRepo, authRepo, twilioGateway, conf)

	s := &server.Server{
		Config:              conf,
		Mail:                mailgunClient,
		AuthService:         authService,
		ConversationService: conversationService,
	}
	s.Start()
}
