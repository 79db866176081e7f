package renderer

import "strings"

// ValidFormats lists the image formats the render server can produce.
// "eps" additionally requires the poppler library to be installed alongside
// the renderer.
var ValidFormats = []string{"png", "jpeg", "webp", "svg", "pdf", "eps"}

var formatAliases = map[string]string{
	"jpg": "jpeg",
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
	"eps":  "application/postscript",
}

// CoerceFormat validates a user specified image format and normalizes it to
// the exact string the render server expects: lower case, no leading dot, and
// "jpg" mapped to "jpeg". An unsupported value yields a FormatError.
func CoerceFormat(format string) (string, error) {
	if format == "" {
		return "", &FormatError{Value: format}
	}

	coerced := strings.ToLower(format)
	coerced = strings.TrimPrefix(coerced, ".")

	if alias, ok := formatAliases[coerced]; ok {
		coerced = alias
	}

	if _, ok := contentTypes[coerced]; !ok {
		return "", &FormatError{Value: format}
	}
	return coerced, nil
}

// ContentTypeFor returns the MIME type for a coerced image format. It falls
// back to application/octet-stream for anything it does not recognize.
func ContentTypeFor(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}
