package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextDecoder(t *testing.T) {
	euro := []byte("€") // e2 82 ac
	tests := []struct {
		name    string
		chunks  [][]byte
		want    []string
		wantErr bool
	}{
		{
			name:   "ascii passes through",
			chunks: [][]byte{[]byte("Hello "), []byte("world")},
			want:   []string{"Hello ", "world"},
		},
		{
			name:   "character split across chunks",
			chunks: [][]byte{append([]byte("5 "), euro[:1]...), euro[1:2], append(euro[2:], '!')},
			want:   []string{"5 ", "", "€!"},
		},
		{
			name:   "empty chunk",
			chunks: [][]byte{{}, []byte("ok")},
			want:   []string{"", "ok"},
		},
		{
			name:   "four byte rune split in two",
			chunks: [][]byte{[]byte("💪")[:2], []byte("💪")[2:]},
			want:   []string{"", "💪"},
		},
		{
			name:    "invalid byte",
			chunks:  [][]byte{{'a', 0xff, 'b'}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d textDecoder
			var got []string
			for _, c := range tt.chunks {
				s, err := d.Decode(c)
				if err != nil {
					require.True(t, tt.wantErr, "unexpected error: %v", err)
					return
				}
				got = append(got, s)
			}
			require.False(t, tt.wantErr, "expected an error")
			assert.Equal(t, tt.want, got)
			assert.NoError(t, d.Flush())
		})
	}
}

func TestTextDecoderFlushTruncated(t *testing.T) {
	var d textDecoder
	s, err := d.Decode([]byte("ok \xe2\x82"))
	require.NoError(t, err)
	assert.Equal(t, "ok ", s)
	assert.ErrorIs(t, d.Flush(), errTruncatedText)
	assert.NoError(t, d.Flush())
}

func TestInvalidOffset(t *testing.T) {
	assert.Equal(t, 2, invalidOffset([]byte{'a', 'b', 0xc0, 'c'}))
	assert.Equal(t, 3, invalidOffset([]byte("abc")))
}
