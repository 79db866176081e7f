package renderer_test

import (
	"testing"

	"render-manager/core/renderer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Lowercase", "png", "png"},
		{"Uppercase", "JPG", "jpeg"},
		{"LeadingDot", ".jpg", "jpeg"},
		{"Alias", "jpeg", "jpeg"},
		{"Svg", "SVG", "svg"},
		{"Pdf", ".pdf", "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderer.CoerceFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceFormat_Invalid(t *testing.T) {
	for _, in := range []string{"bmp", "", ".tiff", "gif"} {
		t.Run("Value_"+in, func(t *testing.T) {
			_, err := renderer.CoerceFormat(in)
			var formatErr *renderer.FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Contains(t, err.Error(), "png")
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", renderer.ContentTypeFor("png"))
	assert.Equal(t, "image/svg+xml", renderer.ContentTypeFor("svg"))
	assert.Equal(t, "application/pdf", renderer.ContentTypeFor("pdf"))
	assert.Equal(t, "application/octet-stream", renderer.ContentTypeFor("weird"))
}
