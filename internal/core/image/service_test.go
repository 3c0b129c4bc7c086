package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeDataURI(t *testing.T, uri string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestNormalize(t *testing.T) {
	svc := NewService(1<<20, 0, 85)
	raw := pngBase64(t, 32, 16)

	tests := []struct {
		name  string
		input string
	}{
		{name: "data uri", input: "data:image/png;base64," + raw},
		{name: "raw base64", input: raw},
		{name: "surrounding whitespace", input: "  " + raw + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Normalize(tt.input)
			require.NoError(t, err)
			img := decodeDataURI(t, out)
			assert.Equal(t, 32, img.Bounds().Dx())
			assert.Equal(t, 16, img.Bounds().Dy())
		})
	}
}

func TestNormalize_Downscales(t *testing.T) {
	svc := NewService(1<<20, 20, 85)

	out, err := svc.Normalize(pngBase64(t, 40, 10))
	require.NoError(t, err)
	img := decodeDataURI(t, out)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())

	out, err = svc.Normalize(pngBase64(t, 10, 40))
	require.NoError(t, err)
	img = decodeDataURI(t, out)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestNormalize_Errors(t *testing.T) {
	svc := NewService(1<<20, 0, 85)

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: ErrInvalidImage},
		{name: "not an image uri", input: "data:text/plain;base64,aGVsbG8=", want: ErrInvalidImage},
		{name: "missing comma", input: "data:image/png;base64", want: ErrInvalidImage},
		{name: "bad base64", input: "data:image/png;base64,!!!", want: ErrInvalidImage},
		{name: "not an image", input: base64.StdEncoding.EncodeToString([]byte("hello world")), want: ErrInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Normalize(tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, svc.Validate(tt.input), tt.want)
		})
	}
}

func TestNormalize_TooLarge(t *testing.T) {
	raw := pngBase64(t, 32, 32)
	svc := NewService(16, 0, 85)

	_, err := svc.Normalize(raw)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
