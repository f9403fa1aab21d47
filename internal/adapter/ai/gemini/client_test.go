package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,/9j/", DataURI([]byte{0xff, 0xd8, 0xff}, "image/jpeg"))
	assert.Equal(t, "data:image/png;base64,", DataURI(nil, "image/png"))
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, zap.NewNop())
	require.Error(t, err)
}
