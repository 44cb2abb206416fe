package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	FileName = "workbench.db"

	// MaxCommandRecords bounds the command journal.
	MaxCommandRecords = 500
)

// Storage handles all database operations using SQLite
type Storage struct {
	DB *gorm.DB
}

// NewStorage opens (or creates) the database in dir
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	// Open SQLite with Glebarez (Pure Go, no CGO)
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, FileName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")

	if err := db.AutoMigrate(&AppSetting{}, &CommandRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{DB: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ============= App Settings =============

// GetString retrieves a string setting by key, "" if unset
func (s *Storage) GetString(key string) (string, error) {
	var setting AppSetting
	err := s.DB.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return setting.Value, err
}

// SetString stores a string setting
func (s *Storage) SetString(key, value string) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&AppSetting{Key: key, Value: value}).Error
}

// ============= Command Journal =============

// RecordCommand appends rec and prunes the journal to MaxCommandRecords
func (s *Storage) RecordCommand(rec CommandRecord) error {
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().Format(time.RFC3339Nano)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		keep := tx.Model(&CommandRecord{}).Select("seq").Order("seq desc").Limit(MaxCommandRecords)
		return tx.Where("seq NOT IN (?)", keep).Delete(&CommandRecord{}).Error
	})
}

// RecentCommands returns the newest journal entries first
func (s *Storage) RecentCommands(limit int) ([]CommandRecord, error) {
	var recs []CommandRecord
	err := s.DB.Order("seq desc").Limit(limit).Find(&recs).Error
	return recs, err
}

// CountCommandsByStatus returns how many journaled commands have status
func (s *Storage) CountCommandsByStatus(status string) (int64, error) {
	var n int64
	err := s.DB.Model(&CommandRecord{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
