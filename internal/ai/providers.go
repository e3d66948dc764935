package ai

import (
	"context"

	"github.com/ariefcatur/go-artisan-market/internal/config"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
)

// NewFromConfig builds a Gateway over whichever providers are configured. A provider
// that fails to initialise is left out and its calls fall back.
func NewFromConfig(ctx context.Context, cfg config.AIConfig) *Gateway {
	var (
		text       TextModel
		translator Translator
	)
	if cfg.TextConfigured() {
		m, err := NewGenAIModel(ctx, GenAIConfig{APIKey: cfg.GeminiAPIKey, Project: vertexProject(cfg), Location: cfg.Region})
		if err != nil {
			logging.Warn().Err(err).Msg("text model unavailable, using fallbacks")
		} else {
			text = m
		}
	}
	if cfg.VertexConfigured() {
		t, err := NewCloudTranslator(ctx, cfg.CredentialsPath, cfg.TranslationModel)
		if err != nil {
			logging.Warn().Err(err).Msg("translator unavailable, using fallbacks")
		} else {
			translator = t
		}
	}

	g := NewGateway(text, translator, Options{
		TextModelName: cfg.TextModel,
		ChatModelName: cfg.ChatModel,
		Timeout:       cfg.Timeout,
	})
	st := g.Status()
	logging.Info().Bool("text_model", st.TextModel).Bool("translator", st.Translator).Msg("ai gateway ready")
	return g
}

func vertexProject(cfg config.AIConfig) string {
	if cfg.VertexConfigured() {
		return cfg.ProjectID
	}
	return ""
}
