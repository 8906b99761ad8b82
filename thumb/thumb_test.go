package thumb_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirshare"
	"dirshare/thumb"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestCache_ImageThumbnail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, 800, 600)

	c := thumb.New(nil, 72, 128)

	got, err := c.Thumbnail(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, thumb.CacheDirName, "photo.png.jpg"), got)

	// The cached thumbnail is a decodable JPEG within the size bound.
	f, err := os.Open(got)
	require.NoError(t, err)
	defer f.Close()
	img, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, img.Bounds().Dx(), 128)
	assert.LessOrEqual(t, img.Bounds().Dy(), 128)
}

func TestCache_ReusesFreshThumbnail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, 64, 64)

	c := thumb.New(nil, 72, 128)

	first, err := c.Thumbnail(src)
	require.NoError(t, err)
	firstInfo, err := os.Stat(first)
	require.NoError(t, err)

	// Second call returns the same file without rewriting it.
	second, err := c.Thumbnail(src)
	require.NoError(t, err)
	secondInfo, err := os.Stat(second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstInfo.ModTime(), secondInfo.ModTime())
}

func TestCache_RegeneratesStaleThumbnail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, 64, 64)

	c := thumb.New(nil, 72, 128)
	cached, err := c.Thumbnail(src)
	require.NoError(t, err)

	// Backdate the thumbnail so the source looks newer.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cached, old, old))

	_, err = c.Thumbnail(src)
	require.NoError(t, err)
	info, err := os.Stat(cached)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(old))
}

func TestCache_MissingSource(t *testing.T) {
	c := thumb.New(nil, 72, 128)
	_, err := c.Thumbnail(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, dirshare.ErrNotFound)
}

func TestCache_PDFWithoutRenderer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))

	c := thumb.New(nil, 72, 128)
	_, err := c.Thumbnail(src)
	assert.ErrorIs(t, err, thumb.ErrUnsupported)
}

type flatRenderer struct{}

func (flatRenderer) RenderPage(string, int, float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 400, 300)), nil
}

func TestCache_PDFWithRenderer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))

	c := thumb.New(flatRenderer{}, 72, 128)
	got, err := c.Thumbnail(src)
	require.NoError(t, err)
	assert.FileExists(t, got)
}

func TestCache_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	c := thumb.New(nil, 72, 128)
	_, err := c.Thumbnail(src)
	assert.ErrorIs(t, err, thumb.ErrUnsupported)
}
