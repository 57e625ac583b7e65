package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name:     "scenario and toast id",
			ctx:      WithToastID(WithScenario(context.Background(), "demo"), "abc123xyz"),
			wantKeys: []string{"scenario", "toast_id"},
		},
		{
			name:      "scenario only",
			ctx:       WithScenario(context.Background(), "demo"),
			wantKeys:  []string{"scenario"},
			wantEmpty: []string{"toast_id"},
		},
		{
			name:      "no values",
			ctx:       context.Background(),
			wantEmpty: []string{"scenario", "toast_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.ctx).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, key := range tt.wantKeys {
				assert.Contains(t, entry, key)
			}
			for _, key := range tt.wantEmpty {
				assert.NotContains(t, entry, key)
			}
		})
	}
}
