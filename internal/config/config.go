package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
	"time"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"127.0.0.1"`
	Port   string `yaml:"port" env-default:"8080"`
}

type Telegram struct {
	ApiKey string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
	// Admins is the static allow-list of Telegram usernames.
	Admins []string `yaml:"admins" env:"ADMINS" env-separator:"," env-default:""`
	// AdminChatIDs receive notifications even before an admin has talked to the bot.
	AdminChatIDs []int64 `yaml:"admin_chat_ids" env:"ADMIN_CHAT_IDS" env-separator:"," env-default:""`
	// RoleChatID, when set, also grants admin rights to creators and administrators of that chat.
	RoleChatID      int64  `yaml:"role_chat_id" env:"ADMIN_ROLE_CHAT_ID" env-default:"0"`
	DefaultLanguage string `yaml:"default_language" env:"DEFAULT_LANGUAGE" env-default:"ru"`
	RateLimit       int    `yaml:"rate_limit" env:"RATE_LIMIT" env-default:"30"`
	// LogLevel is the lowest level forwarded to admins: errors at once, warnings in the digest.
	LogLevel       string `yaml:"log_level" env:"ADMIN_LOG_LEVEL" env-default:"warn"`
	DigestInterval int    `yaml:"digest_interval_min" env-default:"60"`
}

type Storage struct {
	// Backend is one of "file", "mongo" or "mysql".
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"file"`
	Path    string `yaml:"path" env:"DATA_FILE" env-default:"tournament_data.json"`
}

type Mongo struct {
	Host     string `yaml:"host" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:""`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
	Database string `yaml:"database" env-default:"tourneybot"`
}

type MySql struct {
	HostName string `yaml:"hostname" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env-default:"3306"`
	UserName string `yaml:"username" env-default:""`
	Password string `yaml:"password" env:"MYSQL_PASSWORD" env-default:""`
	Database string `yaml:"database" env-default:"tourneybot"`
	Prefix   string `yaml:"prefix" env-default:""`
}

type Sweeper struct {
	Interval time.Duration `yaml:"interval" env:"CLEANUP_INTERVAL" env-default:"1h"`
	MaxAge   time.Duration `yaml:"max_age" env:"UNCONFIRMED_DATA_EXPIRY" env-default:"24h"`
	Budget   time.Duration `yaml:"budget" env-default:"30s"`
}

type Api struct {
	Enabled bool     `yaml:"enabled" env-default:"false"`
	Listen  Listen   `yaml:"listen"`
	Tokens  []string `yaml:"tokens" env:"API_TOKENS" env-separator:"," env-default:""`
}

type Config struct {
	Telegram Telegram `yaml:"telegram"`
	Storage  Storage  `yaml:"storage"`
	Mongo    Mongo    `yaml:"mongo"`
	MySql    MySql    `yaml:"mysql"`
	Sweeper  Sweeper  `yaml:"sweeper"`
	Api      Api      `yaml:"api"`
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if path == "" {
			err = cleanenv.ReadEnv(instance)
		} else {
			err = cleanenv.ReadConfig(path, instance)
		}
		if err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
