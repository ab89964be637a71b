package db

import (
	"github.com/techagentng/chatrelay/config"
	"github.com/techagentng/chatrelay/logger"
	"github.com/techagentng/chatrelay/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		logger.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	logger.Infof("connecting to postgres (env=%s)", c.Env)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: c.DatabaseURL,
	}), gormConfig)
	if err != nil {
		logger.Fatalf("unable to connect to postgres: %v", err)
	}

	return gormDB
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Participant{},
		&models.Blacklist{},
	)
}
