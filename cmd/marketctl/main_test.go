package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-artisan-market/internal/config"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

func TestRoleAndID(t *testing.T) {
	role, id, err := roleAndID([]string{"buyer", "42"})
	require.NoError(t, err)
	assert.Equal(t, market.RoleBuyer, role)
	assert.EqualValues(t, 42, id)

	_, _, err = roleAndID([]string{"seller", "1"})
	assert.Error(t, err)
	_, _, err = roleAndID([]string{"artisan", "-3"})
	assert.Error(t, err)
}

func TestStatusWithoutProbe(t *testing.T) {
	cfg = config.Config{AI: config.AIConfig{
		ProjectID: "your-project-id", Region: "asia-south1", TextModel: "gemini-2.0-flash", TranslationModel: "nmt",
	}}
	probe = false

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, statusCmd.RunE(cmd, nil))

	assert.Contains(t, out.String(), "text model:      gemini-2.0-flash (configured: no)")
	assert.Contains(t, out.String(), "credentials:     (application default)")
	assert.NotContains(t, out.String(), "probe")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	deleteYes = false
	err := usersDeleteCmd.RunE(&cobra.Command{}, []string{"buyer", "7"})
	assert.EqualError(t, err, "refusing to delete without --yes")
}
