package database

import (
	"context"
	"errors"
	"time"

	"github.com/thereayou/connectx/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Connect opens postgres, retrying while the container comes up.
func Connect(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var err error
	for i := 0; i < 10; i++ {
		var gdb *gorm.DB
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err == nil {
			sqlDB, err2 := gdb.DB()
			if err2 == nil {
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetMaxOpenConns(20)
				sqlDB.SetConnMaxLifetime(time.Hour)
				return NewDatabase(gdb), nil
			}
			err = err2
		}
		time.Sleep(time.Duration(500+i*200) * time.Millisecond)
	}
	return nil, err
}

func (d *Database) Migrate() error {
	return d.db.AutoMigrate(&models.User{}, &models.ConnectionRequest{}, &models.Room{}, &models.Message{})
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
