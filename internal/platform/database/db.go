package database

import (
	"fmt"
	"log"
	"os"

	"github.com/melvinsclub/club-backend/internal/platform/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global gorm handle shared by all domain packages.
var DB *gorm.DB

// InitDB opens the SQLite database and configures the connection pool.
func InitDB(cfg config.SqliteConfig) {
	var err error

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent,
			Colorful:      true,
		},
	)

	DB, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect to SQLite: " + err.Error())
	}

	// SQLite only supports one writer; a single connection serializes the
	// point-balance transactions without busy-retry loops.
	sqlDB, err := DB.DB()
	if err != nil {
		panic("failed to access underlying sql.DB: " + err.Error())
	}
	sqlDB.SetMaxOpenConns(1)

	fmt.Println("SQLite connection established.")
}
