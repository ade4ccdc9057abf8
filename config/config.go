package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"5000"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"taptrack"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"taptrack"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"10"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"50"`

	// Redis 配置（扫卡防抖标记）
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"taptrack"`

	// Google Sheets 镜像表配置
	GoogleSheetID         string `env:"GOOGLE_SHEET_ID"`
	GoogleSheetName       string `env:"GOOGLE_SHEET_NAME" envDefault:"Sheet1"`
	GoogleServiceKey      string `env:"GOOGLE_SERVICE_ACCOUNT_KEY"` // 服务账号密钥文件路径或内联 JSON
	SheetSyncIntervalSecs int    `env:"SHEET_SYNC_INTERVAL_SECONDS" envDefault:"60"`
	SheetResetHour        int    `env:"SHEET_RESET_HOUR" envDefault:"0"` // 每日全量清理的本地小时

	// 考勤业务配置
	Timezone            string `env:"TIMEZONE" envDefault:"Africa/Johannesburg"`
	ScanCooldownSeconds int    `env:"SCAN_COOLDOWN_SECONDS" envDefault:"120"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"100"` // 每秒请求数

	location *time.Location
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	if loc, err := time.LoadLocation(Cfg.Timezone); err == nil {
		Cfg.location = loc
	}
}

// MustValidate 各 main 启动时调用，配置不完整直接退出
func MustValidate() {
	if Cfg.GoogleSheetID == "" {
		log.Fatal("GOOGLE_SHEET_ID is required")
	}

	if Cfg.GoogleServiceKey == "" {
		log.Fatal("GOOGLE_SERVICE_ACCOUNT_KEY is required")
	}

	if Cfg.location == nil {
		log.Fatalf("Invalid TIMEZONE %q", Cfg.Timezone)
	}

	if Cfg.SheetResetHour < 0 || Cfg.SheetResetHour > 23 {
		log.Fatal("SHEET_RESET_HOUR must be within 0-23")
	}

	if Cfg.ScanCooldownSeconds <= 0 {
		log.Printf("WARN: SCAN_COOLDOWN_SECONDS <= 0, scan debounce is disabled")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

// Location 返回考勤使用的固定时区
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c *Config) ScanCooldown() time.Duration {
	return time.Duration(c.ScanCooldownSeconds) * time.Second
}

func (c *Config) SheetSyncInterval() time.Duration {
	return time.Duration(c.SheetSyncIntervalSecs) * time.Second
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
