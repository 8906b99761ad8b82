// Package thumb produces and caches JPEG thumbnails for images and PDF
// documents. Thumbnails live in a hidden ".thumbs" directory next to the
// source file and are generated lazily, once; regeneration only happens
// when the source is newer than the cache. Generation is idempotent, so
// concurrent first requests may race to write the same bytes — the last
// rename is equivalent to the first.
package thumb

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	// Image decoders for native thumbnail sources.
	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"dirshare"
)

// CacheDirName is the hidden sibling directory thumbnails are stored in.
// Its leading dot keeps it out of directory listings.
const CacheDirName = ".thumbs"

// ErrUnsupported is returned for files no thumbnail can be produced for,
// including PDFs when no page renderer is configured.
var ErrUnsupported = errors.New("unsupported thumbnail source")

// PageRenderer rasterizes one page of a document. The PDF implementation
// is an external collaborator; the cache only consumes the returned
// image.
type PageRenderer interface {
	RenderPage(path string, page int, dpi float64) (image.Image, error)
}

// Cache generates and reuses thumbnails.
type Cache struct {
	renderer PageRenderer
	dpi      float64
	maxSize  int
}

// New creates a Cache. renderer may be nil, which disables PDF
// thumbnails while keeping image thumbnails working.
func New(renderer PageRenderer, dpi float64, maxSize int) *Cache {
	if dpi <= 0 {
		dpi = 72
	}
	if maxSize <= 0 {
		maxSize = 256
	}
	return &Cache{renderer: renderer, dpi: dpi, maxSize: maxSize}
}

// Thumbnail returns the path of a cached JPEG thumbnail for the given
// source file, generating it first when missing or stale.
func (c *Cache) Thumbnail(srcPath string) (string, error) {
	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &dirshare.PathError{Path: srcPath, Err: dirshare.ErrNotFound}
		}
		return "", fmt.Errorf("stat %s: %w", srcPath, err)
	}

	cacheDir := filepath.Join(filepath.Dir(srcPath), CacheDirName)
	cachePath := filepath.Join(cacheDir, filepath.Base(srcPath)+".jpg")

	if cacheInfo, err := os.Stat(cachePath); err == nil && !cacheInfo.ModTime().Before(srcInfo.ModTime()) {
		return cachePath, nil
	}

	src, err := c.decode(srcPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	if err := c.write(cachePath, scale(src, c.maxSize)); err != nil {
		return "", err
	}
	return cachePath, nil
}

func (c *Cache) decode(srcPath string) (image.Image, error) {
	name := filepath.Base(srcPath)
	switch {
	case dirshare.IsPDF(name):
		if c.renderer == nil {
			return nil, fmt.Errorf("%s: no pdf renderer: %w", name, ErrUnsupported)
		}
		img, err := c.renderer.RenderPage(srcPath, 0, c.dpi)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		return img, nil
	case decodableImage(name):
		f, err := os.Open(srcPath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer func() { _ = f.Close() }()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
}

// decodableImage reports whether a registered decoder can handle the
// file. Narrower than dirshare.IsImage: tiff/bmp/ico previews render in
// the browser but have no decoder here.
func decodableImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	default:
		return false
	}
}

// write encodes to a temp file in the cache directory and renames it into
// place, so readers never observe a half-written thumbnail.
func (c *Cache) write(cachePath string, img image.Image) error {
	dir := filepath.Dir(cachePath)
	tmp := filepath.Join(dir, fmt.Sprintf(".t%s", uuid.NewString()))

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp thumbnail: %w", err)
	}
	encErr := jpeg.Encode(f, img, &jpeg.Options{Quality: 82})
	closeErr := f.Close()
	if encErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("encode thumbnail: %w", encErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp thumbnail: %w", closeErr)
	}
	if err := os.Rename(tmp, cachePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename thumbnail: %w", err)
	}
	return nil
}

func scale(src image.Image, maxSize int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return src
	}

	nw, nh := w, h
	if w > h {
		if w > maxSize {
			nw = maxSize
			nh = h * maxSize / w
		}
	} else {
		if h > maxSize {
			nh = maxSize
			nw = w * maxSize / h
		}
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	if nw == w && nh == h {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
