package config

import (
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Auth  AuthConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type AuthConfig struct {
	BcryptCost         int
	RefreshTokenExpiry time.Duration
	BootstrapAdmin     BootstrapAdminConfig
}

// BootstrapAdmin is created at startup when no admin account exists yet,
// so a fresh deployment is reachable without manual SQL.
type BootstrapAdminConfig struct {
	Name     string
	Email    string
	Password string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Environment-only configuration is fine when no .env file is present.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 60 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("AUTH_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	bcryptCost := viper.GetInt("AUTH_BCRYPT_COST")
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Auth: AuthConfig{
			BcryptCost:         bcryptCost,
			RefreshTokenExpiry: refreshExpiry,
			BootstrapAdmin: BootstrapAdminConfig{
				Name:     viper.GetString("AUTH_BOOTSTRAP_ADMIN_NAME"),
				Email:    viper.GetString("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
				Password: viper.GetString("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
			},
		},
	}

	if config.App.Port == "" {
		config.App.Port = "8000"
	}

	return config, nil
}
