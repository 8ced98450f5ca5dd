package textgen_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docify/docify/internal/adapters/providers/textgen"
	"github.com/docify/docify/internal/infrastructure/clients/openai"
	"github.com/docify/docify/pkg/config"
)

func TestNewTextGenerator_Selection(t *testing.T) {
	ctx := context.Background()

	generator, err := textgen.NewTextGenerator(ctx, &config.TextGenConfig{Provider: "cohere"})
	require.NoError(t, err)
	assert.IsType(t, &textgen.MockTextGenerator{}, generator)

	generator, err = textgen.NewTextGenerator(ctx, &config.TextGenConfig{Provider: "cohere", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &textgen.CohereProvider{}, generator)

	generator, err = textgen.NewTextGenerator(ctx, &config.TextGenConfig{Provider: "OpenAI", APIKey: "k", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, generator)

	_, err = textgen.NewTextGenerator(ctx, &config.TextGenConfig{Provider: "llama", APIKey: "k"})
	assert.Error(t, err)
}
