package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsite/internal/domain/syncconfig"
)

func TestSelector_Select(t *testing.T) {
	_, opts := newFakeGoogle(t)
	sel := Selector{DocumentPath: "data/members.json", ClientOptions: opts}
	ctx := context.Background()

	src, err := sel.Select(ctx, syncconfig.Config{})
	require.NoError(t, err)
	assert.Equal(t, NameDocument, src.Name())

	src, err = sel.Select(ctx, syncconfig.Config{SheetsAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, NameDocument, src.Name(), "key without spreadsheet id is not configured")

	src, err = sel.Select(ctx, remoteConfig())
	require.NoError(t, err)
	assert.Equal(t, NameSheets, src.Name())
}

func TestSelector_NothingConfigured(t *testing.T) {
	_, err := Selector{}.Select(context.Background(), syncconfig.Config{})
	assert.Error(t, err)
}
