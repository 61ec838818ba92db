package config

import (
	"fmt"
	"os"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PricePro      string
	PriceTeam     string
}

type DeepSeekConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type Config struct {
	DatabaseURL string
	AppURL      string // PWA origin, OAuth redirect hedefi
	JWTSecret   string

	Google   GoogleConfig
	Stripe   StripeConfig
	DeepSeek DeepSeekConfig
	R2       R2Config
}

func LoadConfig() *Config {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AppURL:      os.Getenv("APP_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}

	// Google Drive OAuth config
	cfg.Google.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.Google.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.Google.RedirectURL = fmt.Sprintf("%s/api/drive/callback", os.Getenv("API_URL"))

	// Stripe config
	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.PricePro = os.Getenv("STRIPE_PRICE_PRO")
	cfg.Stripe.PriceTeam = os.Getenv("STRIPE_PRICE_TEAM")

	// DeepSeek config (OpenAI uyumlu API)
	cfg.DeepSeek.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	cfg.DeepSeek.BaseURL = os.Getenv("DEEPSEEK_BASE_URL")
	if cfg.DeepSeek.BaseURL == "" {
		cfg.DeepSeek.BaseURL = "https://api.deepseek.com"
	}
	cfg.DeepSeek.Model = os.Getenv("DEEPSEEK_MODEL")
	if cfg.DeepSeek.Model == "" {
		cfg.DeepSeek.Model = "deepseek-chat"
	}

	// R2 config (thumbnail cache)
	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	return cfg
}
