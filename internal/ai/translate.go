package ai

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

// CloudTranslator uses the Cloud Translation v2 REST API.
type CloudTranslator struct {
	svc   *translate.Service
	model string
}

// NewCloudTranslator authenticates with the credentials file when given,
// otherwise with application default credentials.
func NewCloudTranslator(ctx context.Context, credentialsPath, model string) (*CloudTranslator, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create translate service: %w", err)
	}
	return &CloudTranslator{svc: svc, model: model}, nil
}

func (t *CloudTranslator) Translate(ctx context.Context, text, target, source string) (string, error) {
	call := t.svc.Translations.List([]string{text}, target).Format("text").Context(ctx)
	if source != "" {
		call = call.Source(source)
	}
	if t.model != "" {
		call = call.Model(t.model)
	}
	resp, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if len(resp.Translations) == 0 {
		return "", errEmpty
	}
	return resp.Translations[0].TranslatedText, nil
}
