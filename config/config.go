package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	AppPort int
	GinMode string

	DBDriver string // "mysql" or "sqlite"

	MySQLHost     string
	MySQLPort     int
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string

	SQLitePath string

	MonitorIntervalMs int
	SyncIntervalMs    int
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.AppPort = cast.ToInt(getOrReturnDefault("PORT", 8080))
	cfg.GinMode = cast.ToString(getOrReturnDefault("GIN_MODE", "debug"))

	cfg.DBDriver = cast.ToString(getOrReturnDefault("DB_DRIVER", "mysql"))

	cfg.MySQLHost = cast.ToString(getOrReturnDefault("MYSQL_HOST", "localhost"))
	cfg.MySQLPort = cast.ToInt(getOrReturnDefault("MYSQL_PORT", 3306))
	cfg.MySQLUser = cast.ToString(getOrReturnDefault("MYSQL_USER", "root"))
	cfg.MySQLPassword = cast.ToString(getOrReturnDefault("MYSQL_PASSWORD", ""))
	cfg.MySQLDatabase = cast.ToString(getOrReturnDefault("MYSQL_DATABASE", "table_order"))

	cfg.SQLitePath = cast.ToString(getOrReturnDefault("SQLITE_PATH", "table_order.db"))

	cfg.MonitorIntervalMs = cast.ToInt(getOrReturnDefault("MONITOR_INTERVAL_MS", 500))
	cfg.SyncIntervalMs = cast.ToInt(getOrReturnDefault("SYNC_INTERVAL_MS", 2000))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// InitDB opens the configured database. MySQL in production, SQLite for
// local development.
func InitDB(cfg Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDatabase)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}
