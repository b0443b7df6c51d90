package cli

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"short", "buy milk", "buy milk"},
		{"exact", strings.Repeat("a", 10), strings.Repeat("a", 10)},
		{"ascii", strings.Repeat("a", 11), strings.Repeat("a", 7) + "..."},
		{"multibyte", strings.Repeat("é", 11), strings.Repeat("é", 7) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, 10))
		})
	}
}

func TestFlatLinesMultibyteBody(t *testing.T) {
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	body := strings.Repeat("é", 100)
	lines := flatLines([]model.Todo{{ID: 1, Body: body, Status: model.StatusPending}})

	assert.Len(t, lines, 1)
	assert.True(t, utf8.ValidString(lines[0]))
	assert.Contains(t, lines[0], strings.Repeat("é", maxBodyWidth-3)+"...")
	assert.NotContains(t, lines[0], strings.Repeat("é", maxBodyWidth-2))
}
