package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestFilterFields(t *testing.T) {
	got := filterFields([]zap.Field{
		zap.String("image", "data:image/png;base64,AAAA"),
		zap.String("raw_base64", "AAAA"),
		zap.String("photo", "AAAA"),
		zap.Int("image_length", 4),
		zap.String("path", "/api/v1/recipes/scan"),
	})

	keys := make([]string, 0, len(got))
	for _, f := range got {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"image_length", "path"}, keys)
}

func TestInitLogger_WritesJSONFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() {
		Logger = prev
		zap.ReplaceGlobals(prev)
	})

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_MODE", "")

	require.NoError(t, InitLogger("info"))
	LogInfo("請求完成", zap.String("path", "/health"), zap.String("image", "secret"))
	LogDebug("hidden at info level")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"請求完成"`)
	assert.Contains(t, out, `"service":"recipe-engine"`)
	assert.Contains(t, out, `"level":"info"`)
	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, "hidden at info level")
}
