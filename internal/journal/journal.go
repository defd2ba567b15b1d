// Package journal keeps a best-effort local record of QR delivery
// attempts. Journal failures never fail a run; delivery is the program's
// contract, bookkeeping is not.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Delivery status constants.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Delivery is one QR email attempt.
type Delivery struct {
	ID             uint   `json:"-" gorm:"primaryKey"`
	DeliveryID     string `json:"delivery_id" gorm:"uniqueIndex"`
	Recipient      string `json:"recipient"`
	ImageSizeBytes int    `json:"image_size_bytes"`
	Status         string `json:"status"`
	ErrorText      string `json:"error_text,omitempty"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewDelivery constructs a ready-to-insert record with a fresh delivery ID.
func NewDelivery(recipient string, imageSizeBytes int) Delivery {
	return Delivery{
		DeliveryID:     uuid.NewString(),
		Recipient:      recipient,
		ImageSizeBytes: imageSizeBytes,
	}
}

// Open opens (or creates) the SQLite journal and auto-migrates the schema.
// Parent directories are created as needed.
func Open(journalPath string, slogLogger *slog.Logger) (*gorm.DB, error) {
	if mkdirErr := os.MkdirAll(filepath.Dir(journalPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("create journal directory: %w", mkdirErr)
	}

	database, openErr := gorm.Open(sqlite.Open(journalPath), &gorm.Config{
		Logger: &slogGormLogger{logger: slogLogger},
	})
	if openErr != nil {
		return nil, fmt.Errorf("open sqlite failed: %w", openErr)
	}

	if migrateErr := database.AutoMigrate(&Delivery{}); migrateErr != nil {
		return nil, fmt.Errorf("migration failed: %w", migrateErr)
	}

	return database, nil
}

func RecordDelivery(ctx context.Context, db *gorm.DB, delivery *Delivery) error {
	return db.WithContext(ctx).Create(delivery).Error
}

func GetDeliveryByID(ctx context.Context, db *gorm.DB, deliveryID string) (*Delivery, error) {
	var delivery Delivery
	err := db.WithContext(ctx).Where("delivery_id = ?", deliveryID).First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// RecentDeliveries returns up to limit records, newest first.
func RecentDeliveries(ctx context.Context, db *gorm.DB, limit int) ([]Delivery, error) {
	var deliveries []Delivery
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

// slogGormLogger adapts GORM's logger.Interface onto slog.
type slogGormLogger struct {
	logger *slog.Logger
}

var _ logger.Interface = (*slogGormLogger)(nil)

func (l *slogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logger.Info(msg, data...)
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logger.Warn(msg, data...)
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logger.Error(msg, data...)
}

func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err == nil || err == gorm.ErrRecordNotFound {
		return
	}
	sql, rows := fc()
	l.logger.Error("Trace",
		"error", err,
		"sql", sql,
		"rows", rows,
		"elapsed", time.Since(begin),
	)
}
