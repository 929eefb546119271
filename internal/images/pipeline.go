// Package images normalizes admin-supplied image inputs (binary upload,
// pasted link, drive share link) into a durable, directly renderable URL.
// Large uploads go to remote object storage when configured; small ones
// become an inline-compressed data URI so the durable store's capacity
// ceiling is not overwhelmed.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"regexp"

	"golang.org/x/image/draw"

	"mdcsite/api/internal/ghstore"
)

const (
	// Inline storage ceiling; beyond this the admin must configure
	// remote storage.
	maxInlineBytes = 5 * 1024 * 1024
	// Neither dimension of an inline image exceeds this.
	maxDimension = 800
	jpegQuality  = 70
)

// ErrTooLarge rejects files over the inline ceiling when no remote
// storage is available.
var ErrTooLarge = errors.New("images: file too large for inline storage, configure remote storage")

var driveLinkPattern = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// Input is one image field submission. Data set means a binary upload;
// otherwise URL is used; both empty means "keep the previous value".
type Input struct {
	FileName string
	Data     []byte
	URL      string
	Previous string
}

// Uploader stores a binary object remotely and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// Warning describes a non-fatal remote-upload failure that triggered the
// inline fallback.
type Warning struct {
	Kind    string // "auth", "not_found" or "generic"
	Message string
}

// Resolve turns an Input into a renderable URL. remote may be nil when no
// object storage is configured; a failing remote degrades to the inline
// path and reports a Warning rather than an error.
func Resolve(ctx context.Context, in Input, remote Uploader) (string, *Warning, error) {
	if len(in.Data) == 0 {
		if in.URL != "" {
			return NormalizeURL(in.URL), nil, nil
		}
		return in.Previous, nil, nil
	}

	var warn *Warning
	if remote != nil {
		url, err := remote.Upload(ctx, in.FileName, in.Data)
		if err == nil {
			return url, nil, nil
		}
		warn = classifyUploadError(err)
	}

	if len(in.Data) > maxInlineBytes {
		return "", warn, ErrTooLarge
	}

	inline, err := compressInline(in.Data)
	if err != nil {
		return "", warn, fmt.Errorf("compress image: %w", err)
	}
	return inline, warn, nil
}

// NormalizeURL rewrites Google Drive share links into direct-content
// view URLs; anything else passes through verbatim.
func NormalizeURL(raw string) string {
	match := driveLinkPattern.FindStringSubmatch(raw)
	if match == nil {
		return raw
	}
	return "https://drive.google.com/uc?export=view&id=" + match[1]
}

func classifyUploadError(err error) *Warning {
	kind := "generic"
	switch {
	case errors.Is(err, ghstore.ErrUnauthorized):
		kind = "auth"
	case errors.Is(err, ghstore.ErrNotFound):
		kind = "not_found"
	}
	return &Warning{Kind: kind, Message: err.Error()}
}

// compressInline decodes, proportionally downscales so the larger
// dimension is at most 800px, and re-encodes as a JPEG data URI.
func compressInline(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	scaled := downscale(src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func downscale(src image.Image) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDimension && height <= maxDimension {
		return src
	}

	if width > height {
		height = height * maxDimension / width
		width = maxDimension
	} else {
		width = width * maxDimension / height
		height = maxDimension
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
