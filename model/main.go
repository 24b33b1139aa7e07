package model

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/songquanpeng/image-studio/common"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/env"
	"github.com/songquanpeng/image-studio/common/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

var LOG_DB *gorm.DB

func chooseDB(envName string) (*gorm.DB, error) {
	dsn := os.Getenv(envName)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		logger.SysLog("using PostgreSQL as database")
		common.UsingPostgreSQL = true
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: true,
		})
	case dsn != "":
		logger.SysLog("using MySQL as database")
		common.UsingMySQL = true
		return gorm.Open(mysql.Open(dsn), &gorm.Config{
			PrepareStmt: true,
		})
	default:
		logger.SysLog("SQL_DSN not set, using SQLite as database")
		common.UsingSQLite = true
		return openSQLite(common.SQLitePath)
	}
}

func openSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt: true,
	})
}

// InitDB opens the database named by envName and migrates its tables.
func InitDB(envName string) (db *gorm.DB, err error) {
	db, err = chooseDB(envName)
	if err != nil {
		return nil, err
	}
	return setupDB(db)
}

func setupDB(db *gorm.DB) (*gorm.DB, error) {
	if config.DebugSQLEnabled {
		db = db.Debug()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(env.Int("SQL_MAX_IDLE_CONNS", 100))
	sqlDB.SetMaxOpenConns(env.Int("SQL_MAX_OPEN_CONNS", 1000))
	sqlDB.SetConnMaxLifetime(time.Second * time.Duration(env.Int("SQL_MAX_LIFETIME", 60)))

	if !config.IsMasterNode {
		return db, nil
	}
	logger.SysLog("database migration started")
	if err = db.AutoMigrate(&GenerationLog{}); err != nil {
		return nil, err
	}
	logger.SysLog("database migrated")
	return db, nil
}

func closeDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func CloseDB() error {
	if LOG_DB != DB {
		if err := closeDB(LOG_DB); err != nil {
			return fmt.Errorf("close log database: %w", err)
		}
	}
	return closeDB(DB)
}
