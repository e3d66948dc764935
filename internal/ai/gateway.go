package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/text/language"

	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/metrics"
)

// TextRequest is one single-turn generation call.
type TextRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int32
	JSON        bool // ask for application/json output
}

type TextModel interface {
	Generate(ctx context.Context, req TextRequest) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, target, source string) (string, error)
}

var (
	ErrUnavailable = errors.New("ai provider not configured")
	errEmpty       = errors.New("empty response")
)

type Options struct {
	TextModelName string
	ChatModelName string
	Timeout       time.Duration
}

// Gateway fronts the text model and the translator. Every public call degrades to
// a local fallback instead of returning an error.
type Gateway struct {
	text       TextModel
	translator Translator
	opts       Options

	textBreaker      *gobreaker.CircuitBreaker[string]
	translateBreaker *gobreaker.CircuitBreaker[string]
}

// NewGateway accepts nil providers; the matching calls then always fall back.
func NewGateway(text TextModel, translator Translator, opts Options) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = 4 * time.Second
	}
	if opts.TextModelName == "" {
		opts.TextModelName = "gemini-2.0-flash"
	}
	if opts.ChatModelName == "" {
		opts.ChatModelName = opts.TextModelName
	}
	return &Gateway{
		text:             text,
		translator:       translator,
		opts:             opts,
		textBreaker:      newBreaker("ai-text"),
		translateBreaker: newBreaker("ai-translate"),
	}
}

type Status struct {
	TextModel  bool `json:"text_model"`
	Translator bool `json:"translator"`
}

func (g *Gateway) Status() Status {
	return Status{TextModel: g.text != nil, Translator: g.translator != nil}
}

func (g *Gateway) generate(ctx context.Context, req TextRequest) (string, error) {
	if g.text == nil {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()
	out, err := g.textBreaker.Execute(func() (string, error) {
		s, err := g.text.Generate(ctx, req)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(s) == "" {
			return "", errEmpty
		}
		return s, nil
	})
	return strings.TrimSpace(out), err
}

func (g *Gateway) GenerateNarrative(ctx context.Context, description, category, authorName string) string {
	story, err := g.generate(ctx, TextRequest{
		Model:       g.opts.TextModelName,
		System:      narrativeSystem,
		Prompt:      narrativePrompt(description, category, authorName),
		Temperature: 0.8,
		MaxTokens:   500,
	})
	if err != nil {
		fellBack(ctx, "narrative", err)
		return FallbackNarrative(description, category, authorName)
	}
	succeeded("narrative")
	return story
}

// Translate returns text in target. source defaults to "en".
func (g *Gateway) Translate(ctx context.Context, text, target, source string) string {
	if source == "" {
		source = "en"
	}
	if g.translator == nil {
		fellBack(ctx, "translate", ErrUnavailable)
		return FallbackTranslate(text, target)
	}
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()
	out, err := g.translateBreaker.Execute(func() (string, error) {
		s, err := g.translator.Translate(ctx, text, baseLanguage(target), source)
		if err != nil {
			return "", err
		}
		if s == "" {
			return "", errEmpty
		}
		return s, nil
	})
	if err != nil {
		fellBack(ctx, "translate", err)
		return FallbackTranslate(text, target)
	}
	succeeded("translate")
	return out
}

// SuggestProducts asks the model for a ranking. The fallback list is constant.
func (g *Gateway) SuggestProducts(ctx context.Context, buyerID int64, preferences string, history []market.ViewedProduct) []Suggestion {
	text, err := g.generate(ctx, TextRequest{
		Model:       g.opts.TextModelName,
		System:      suggestSystem,
		Prompt:      suggestPrompt(buyerID, preferences, history),
		Temperature: 0.7,
		MaxTokens:   300,
		JSON:        true,
	})
	if err == nil {
		var out []Suggestion
		if out, err = parseSuggestions(text); err == nil && len(out) == 0 {
			err = errEmpty
		}
		if err == nil {
			succeeded("suggest")
			return out
		}
	}
	fellBack(ctx, "suggest", err)
	return FallbackSuggestions()
}

// Chat runs one assistant turn. Unlike the other calls it reports failure so the
// caller can pick its own canned reply.
func (g *Gateway) Chat(ctx context.Context, system, prompt string) (string, error) {
	out, err := g.generate(ctx, TextRequest{
		Model:       g.opts.ChatModelName,
		System:      system,
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   800,
	})
	if err != nil {
		metrics.AIRequests.WithLabelValues("chat", "fallback").Inc()
		return "", err
	}
	succeeded("chat")
	return out, nil
}

// baseLanguage reduces a tag such as "hi-IN" to its ISO 639 base "hi".
func baseLanguage(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		base, _, _ := strings.Cut(code, "-")
		return strings.ToLower(base)
	}
	base, _ := tag.Base()
	return base.String()
}

func fellBack(ctx context.Context, op string, err error) {
	metrics.AIRequests.WithLabelValues(op, "fallback").Inc()
	logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Msg("ai call fell back")
}

func succeeded(op string) {
	metrics.AIRequests.WithLabelValues(op, "ok").Inc()
}

// ProbeResult holds one error per provider; nil means the provider answered.
type ProbeResult struct {
	TextModel  error
	Translator error
}

// Probe calls each provider once, bypassing breakers and fallbacks.
func (g *Gateway) Probe(ctx context.Context) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	res := ProbeResult{TextModel: ErrUnavailable, Translator: ErrUnavailable}
	if g.text != nil {
		_, res.TextModel = g.text.Generate(ctx, TextRequest{
			Model: g.opts.TextModelName, Prompt: "Reply with the single word OK.", Temperature: 0, MaxTokens: 5,
		})
	}
	if g.translator != nil {
		_, res.Translator = g.translator.Translate(ctx, "Hello", "hi", "en")
	}
	return res
}
