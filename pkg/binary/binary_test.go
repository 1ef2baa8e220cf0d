package binary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksBinary(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"empty", nil, false},
		{"ascii text", []byte("Hello {{project_name}}\n"), false},
		{"utf-8 text", []byte("héllo wörld ✓\n\tindented\r\n"), false},
		{"bom prefixed", []byte("\ufeffname = 1\n"), false},
		{"png header", png, true},
		{"nul byte", []byte("abc\x00def"), true},
		{"invalid utf-8", []byte{'a', 0xff, 0xfe, 'b'}, true},
		{"mostly control codes", bytes.Repeat([]byte{0x07, 0x1b, 'a'}, 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksBinary(tt.content))
		})
	}
}

func TestLooksBinary_OnlySamplesHead(t *testing.T) {
	content := []byte(strings.Repeat("a", 2048) + "\x00")
	assert.False(t, LooksBinary(content), "bytes past the sample are not inspected")
}

func TestLooksBinary_MultiByteRuneAtSampleBoundary(t *testing.T) {
	// 1023 ASCII bytes followed by a 3-byte rune straddling the 1024 limit
	content := []byte(strings.Repeat("a", 1023) + "✓" + "tail")
	assert.False(t, LooksBinary(content))
}
