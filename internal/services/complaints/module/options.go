package module

import (
	"strings"
	"time"

	"zhkh/internal/adapters/gemini"
	"zhkh/internal/adapters/gigachat"
	"zhkh/internal/core/classify"
	"zhkh/internal/platform/config"
)

// Provider names accepted by CLASSIFIER_PROVIDER
const (
	ProviderGigaChat = "gigachat"
	ProviderGemini   = "gemini"
	ProviderRules    = "rules"
)

// ClassifierOptions is the classifier chain configuration
type ClassifierOptions struct {
	Provider  string
	Timeout   time.Duration
	RPS       float64
	Burst     int
	CacheSize int
	RulesFile string

	GigaChat    gigachat.Credentials
	GigaChatAPI gigachat.Config
	Gemini      gemini.Config
}

// FromConfig reads CLASSIFIER_*, GIGACHAT_* and GEMINI_* keys
func FromConfig(cfg config.Conf) ClassifierOptions {
	cl := cfg.Prefix("CLASSIFIER_")
	gc := cfg.Prefix("GIGACHAT_")
	gm := cfg.Prefix("GEMINI_")

	return ClassifierOptions{
		Provider:  strings.ToLower(cl.MayEnum("PROVIDER", ProviderGigaChat, ProviderGigaChat, ProviderGemini, ProviderRules)),
		Timeout:   cl.MayDuration("TIMEOUT", classify.DefaultTimeout),
		RPS:       cl.MayFloat64("RPS", 2),
		Burst:     cl.MayInt("BURST", 4),
		CacheSize: cl.MayInt("CACHE_SIZE", 512),
		RulesFile: cl.MayString("RULES_FILE", ""),

		GigaChat: gigachat.Credentials{
			ClientID:     gc.MayString("CLIENT_ID", ""),
			ClientSecret: gc.MayString("CLIENT_SECRET", ""),
			OAuthURL:     gc.MayString("OAUTH_URL", gigachat.DefaultOAuthURL),
		},
		GigaChatAPI: gigachat.Config{
			APIURL: gc.MayString("API_URL", gigachat.DefaultAPIURL),
			Model:  gc.MayString("MODEL", gigachat.DefaultModel),
		},
		Gemini: gemini.Config{
			APIKey:  gm.MayString("API_KEY", ""),
			Model:   gm.MayString("MODEL", gemini.DefaultModel),
			BaseURL: gm.MayString("BASE_URL", ""),
		},
	}
}
