package keccak

import (
	"testing"
)

func TestSum256(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty",
			input: nil,
			want:  "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		},
		{
			name:  "abc",
			input: []byte("abc"),
			want:  "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sum256(tt.input).Hex(); got != tt.want {
				t.Errorf("Sum256(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestSum256Concatenates(t *testing.T) {
	whole := Sum256([]byte("Hello, Bob!"))
	parts := Sum256([]byte("Hello"), []byte(", "), []byte("Bob!"))
	if whole != parts {
		t.Errorf("split input hashed to %s, want %s", parts.Hex(), whole.Hex())
	}
}

func TestString(t *testing.T) {
	want := "0xb5aadf3154a261abdd9086fc627b61efca26ae5702701d05cd2305f7c52a2fc8"
	if got := String("Hello, Bob!").Hex(); got != want {
		t.Errorf("String = %s, want %s", got, want)
	}
}
