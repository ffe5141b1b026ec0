package pdf

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// ErrUnsupportedImage is returned for images that cannot be embedded: remote
// URLs, non PNG/JPEG payloads or malformed data URLs.
var ErrUnsupportedImage = errors.New("unsupported_image")

// DecodeDataURL returns the bytes and maroto extension of a PNG or JPEG data URL.
func DecodeDataURL(src string) ([]byte, extension.Type, error) {
	src = strings.TrimSpace(src)
	if !strings.HasPrefix(src, "data:") {
		return nil, "", ErrUnsupportedImage
	}
	meta, payload, ok := strings.Cut(src[len("data:"):], ",")
	if !ok {
		return nil, "", ErrUnsupportedImage
	}
	params := strings.Split(meta, ";")
	var ext extension.Type
	switch strings.ToLower(params[0]) {
	case "image/png":
		ext = extension.Png
	case "image/jpeg", "image/jpg":
		ext = extension.Jpg
	default:
		return nil, "", ErrUnsupportedImage
	}
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(p, "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		raw, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", ErrUnsupportedImage
		}
		return []byte(raw), ext, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some browsers drop the padding
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
			return nil, "", ErrUnsupportedImage
		}
	}
	return data, ext, nil
}

// DecodedSize returns the byte size a data URL payload decodes to, or the raw
// length for anything that is not base64.
func DecodedSize(src string) int {
	meta, payload, ok := strings.Cut(src, ",")
	if !ok || !strings.Contains(strings.ToLower(meta), ";base64") {
		return len(src)
	}
	return base64.StdEncoding.DecodedLen(len(strings.TrimRight(payload, "=")))
}
