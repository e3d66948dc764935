package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-artisan-market/internal/ai"
)

var probe bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report which AI providers are configured and optionally probe them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "gcp project:     %s\n", valueOr(cfg.AI.ProjectID, "(unset)"))
		fmt.Fprintf(out, "gcp region:      %s\n", cfg.AI.Region)
		fmt.Fprintf(out, "credentials:     %s\n", valueOr(cfg.AI.CredentialsPath, "(application default)"))
		fmt.Fprintf(out, "gemini api key:  %s\n", yesNo(cfg.AI.GeminiAPIKey != ""))
		fmt.Fprintf(out, "text model:      %s (configured: %s)\n", cfg.AI.TextModel, yesNo(cfg.AI.TextConfigured()))
		fmt.Fprintf(out, "translation:     %s (configured: %s)\n", cfg.AI.TranslationModel, yesNo(cfg.AI.VertexConfigured()))
		if !probe {
			return nil
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		res := ai.NewFromConfig(ctx, cfg.AI).Probe(ctx)
		fmt.Fprintf(out, "probe text:      %s\n", probeResult(res.TextModel))
		fmt.Fprintf(out, "probe translate: %s\n", probeResult(res.Translator))
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&probe, "probe", false, "Call each configured provider once")
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func probeResult(err error) string {
	if err != nil {
		return "FAILED: " + err.Error()
	}
	return "ok"
}
