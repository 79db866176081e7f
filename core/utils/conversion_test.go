package utils_test

import (
	"testing"

	"render-manager/core/utils"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Int", 42, 42},
		{"Int64", int64(42), 42},
		{"Float64", 42.9, 42},
		{"String", "42", 42},
		{"Bytes", []byte("42"), 42},
		{"Garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToInt(tt.in))
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"Float64", 1.5, 1.5},
		{"Int", 2, 2.0},
		{"String", "2.5", 2.5},
		{"Bytes", []byte("3.5"), 3.5},
		{"Garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToFloat(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "hello", utils.ToString("hello"))
	assert.Equal(t, "hello", utils.ToString([]byte("hello")))
	assert.Equal(t, "42", utils.ToString(42))
}
