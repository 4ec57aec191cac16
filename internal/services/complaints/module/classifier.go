package module

import (
	"context"
	"net/http"

	"zhkh/internal/adapters/gemini"
	"zhkh/internal/adapters/gigachat"
	"zhkh/internal/core/classify"
	"zhkh/internal/core/rules"
	perr "zhkh/internal/platform/errors"
	"zhkh/internal/platform/logger"
)

// NewClassifier builds Fallback(Cached(Limited(Remote(provider))), Rules)
// a provider without credentials is logged once and left out; only a bad rulepack is an error
func NewClassifier(ctx context.Context, o ClassifierOptions, obs classify.Observer) (*classify.Fallback, error) {
	log := logger.Named("classifier")

	pack, err := rules.LoadFile(o.RulesFile)
	if err != nil {
		return nil, err
	}
	log.Info().Str("rules", pack.String()).Msg("rulepack loaded")

	p, err := provider(ctx, o)
	if err != nil {
		if !perr.IsCode(err, perr.ErrorCodeAuthConfig) {
			return nil, err
		}
		log.Warn().Err(err).Str("provider", o.Provider).Msg("remote classification unavailable, rules only")
		p = nil
	}
	if p != nil {
		log.Info().Str("provider", p.Name()).Dur("timeout", o.Timeout).Float64("rps", o.RPS).Msg("remote classification enabled")
	}

	return classify.Compose(p, classify.NewRules(pack), classify.Options{
		Timeout:   o.Timeout,
		RPS:       o.RPS,
		Burst:     o.Burst,
		CacheSize: o.CacheSize,
		Observer:  obs,
	}), nil
}

func provider(ctx context.Context, o ClassifierOptions) (classify.Provider, error) {
	switch o.Provider {
	case ProviderRules:
		return nil, nil
	case ProviderGemini:
		c, err := gemini.New(ctx, o.Gemini)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		tp := gigachat.NewTokenProvider(o.GigaChat, nil)
		if !tp.Configured() {
			return nil, perr.AuthConfigf("GIGACHAT_CLIENT_ID and GIGACHAT_CLIENT_SECRET are required")
		}
		return gigachat.New(o.GigaChatAPI, tp, &http.Client{}), nil
	}
}
