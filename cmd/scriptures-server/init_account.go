package main

import (
	"net/http"

	"github.com/vscarantav/parallelscriptures/lib/configutil"
	"github.com/vscarantav/parallelscriptures/lib/sqliteutil"
	"github.com/vscarantav/parallelscriptures/services/account"
	"github.com/vscarantav/parallelscriptures/services/account/db"
)

type AccountSmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type AccountConfig struct {
	Smtp      AccountSmtpConfig `json:"smtp"`
	Database  string            `json:"database"`
	SecretKey string            `json:"secret_key"`
	// BaseURL is the public address embedded in mailed links.
	BaseURL string `json:"base_url"`
	// ShowDevLinks echoes verification/reset links in API responses
	// when mail is not configured. Never enable in production.
	ShowDevLinks bool `json:"show_dev_links"`
}

func InitAccount(mux *http.ServeMux, cfg AccountConfig) error {
	// secrets may arrive through the environment in deployments
	cfg.SecretKey = configutil.Env("SECRET_KEY", cfg.SecretKey)
	cfg.Database = configutil.Env("DATABASE", cfg.Database)
	cfg.Smtp.Server = configutil.Env("SMTP_HOST", cfg.Smtp.Server)
	cfg.Smtp.Port = configutil.EnvInt("SMTP_PORT", cfg.Smtp.Port)
	cfg.Smtp.EmailAddress = configutil.Env("SMTP_USER", cfg.Smtp.EmailAddress)
	cfg.Smtp.Password = configutil.Env("SMTP_PASS", cfg.Smtp.Password)
	cfg.BaseURL = configutil.Env("BASE_URL", cfg.BaseURL)
	cfg.ShowDevLinks = configutil.EnvBool("SHOW_DEV_LINKS", cfg.ShowDevLinks)

	if cfg.Database == "" {
		cfg.Database = "accounts.db"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5000"
	}

	database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
	if err != nil {
		return err
	}

	service := account.NewService(database, account.Options{
		Smtp:         account.SmtpConfig(cfg.Smtp),
		SecretKey:    cfg.SecretKey,
		BaseURL:      cfg.BaseURL,
		ShowDevLinks: cfg.ShowDevLinks,
	})
	service.RegisterRoutes(mux)
	return nil
}
