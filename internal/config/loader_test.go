package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.RAG.ChunkMaxChars = 3000
	cfg.RAG.ChunkOverlapChars = 500
	cfg.Embedding.Dimension = 1536
	return cfg
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().validate())
}

func TestValidate_ChunkMaxChars(t *testing.T) {
	cfg := validConfig()
	cfg.RAG.ChunkMaxChars = 0
	assert.ErrorContains(t, cfg.validate(), "chunk_max_chars")
}

func TestValidate_OverlapBounds(t *testing.T) {
	cfg := validConfig()
	cfg.RAG.ChunkOverlapChars = cfg.RAG.ChunkMaxChars
	assert.ErrorContains(t, cfg.validate(), "chunk_overlap_chars")

	cfg = validConfig()
	cfg.RAG.ChunkOverlapChars = -1
	assert.ErrorContains(t, cfg.validate(), "chunk_overlap_chars")
}

func TestValidate_EmbeddingDimension(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Dimension = 0
	assert.ErrorContains(t, cfg.validate(), "dimension")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("CORPUS_TEST_HOST", "db.internal")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "env var set",
			in:   "host: ${CORPUS_TEST_HOST:localhost}",
			want: "host: db.internal",
		},
		{
			name: "falls back to default",
			in:   "host: ${CORPUS_TEST_UNSET:localhost}",
			want: "host: localhost",
		},
		{
			name: "empty default",
			in:   "password: ${CORPUS_TEST_UNSET:}",
			want: "password: ",
		},
		{
			name: "no default keeps placeholder",
			in:   "secret: ${CORPUS_TEST_UNSET}",
			want: "secret: ${CORPUS_TEST_UNSET}",
		},
		{
			name: "multiple placeholders",
			in:   "${CORPUS_TEST_HOST:a}:${CORPUS_TEST_UNSET:5432}",
			want: "db.internal:5432",
		},
		{
			name: "plain text untouched",
			in:   "plain: value",
			want: "plain: value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.in))
		})
	}
}
