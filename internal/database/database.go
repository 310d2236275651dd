package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Srikar1995/cloudrunway-develop/internal/config"
	"github.com/Srikar1995/cloudrunway-develop/internal/metrics"
	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

// BuildDSN 构造 postgres 连接串
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// Connect 建立数据库连接并配置连接池
func Connect(cfg config.DatabaseConfig, logger *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBName)
	default:
		dialector = postgres.Open(BuildDSN(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	logger.WithFields(logrus.Fields{
		"driver": cfg.Driver,
		"dbname": cfg.DBName,
	}).Info("Database connected")

	return db, nil
}

// ConnectWithRetry 带指数退避的连接重试
func ConnectWithRetry(cfg config.DatabaseConfig, logger *logrus.Logger, maxRetries int) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	delay := time.Second
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = Connect(cfg, logger)
		if err == nil {
			return db, nil
		}
		logger.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"max":     maxRetries,
		}).Warn("Database connection failed, retrying")
		time.Sleep(delay)
		delay *= 2
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// Migrate 执行表结构迁移
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.TerminationRequest{},
		&model.Attachment{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return CreateIndexes(db)
}

// CreateIndexes 创建组合索引
// AutoMigrate 只建单列索引,列表查询需要的组合索引在这里补
func CreateIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_terminations_opp_status ON termination_requests (opportunity_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_terminations_opp_modified ON termination_requests (opportunity_id, modified_at)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs (resource_type, resource_id)",
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// CheckHealth 数据库可用性检查,顺带上报连接池指标
func CheckHealth(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	stats := sqlDB.Stats()
	metrics.UpdateDatabaseConnections(stats.OpenConnections, stats.Idle, stats.InUse)
	return nil
}
