package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIModel calls Gemini through the Gemini API (API key) or Vertex AI (project + region).
type GenAIModel struct {
	client *genai.Client
}

type GenAIConfig struct {
	APIKey   string
	Project  string
	Location string
}

// NewGenAIModel prefers the API key and otherwise uses Vertex AI with application default credentials.
func NewGenAIModel(ctx context.Context, cfg GenAIConfig) (*GenAIModel, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.Project != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, ErrUnavailable
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIModel{client: client}, nil
}

func (m *GenAIModel) Generate(ctx context.Context, req TextRequest) (string, error) {
	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxTokens,
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}
	resp, err := m.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), gc)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
