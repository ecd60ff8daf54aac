package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService turns downloaded cover art into cached thumbnails.
//
// Example usage:
//
//	svc := NewImageService()
//	thumb, err := svc.Thumbnail(ctx, coverBytes, 300)
//	// thumb is a JPEG no larger than 300x300, aspect ratio preserved
type ImageService struct {
	quality int
}

// NewImageService creates a new ImageService encoding JPEGs at quality 90.
func NewImageService() *ImageService {
	return &ImageService{quality: 90}
}

// Thumbnail decodes data (JPEG, PNG or GIF), scales it to fit within
// maxSize x maxSize and re-encodes it as JPEG. Images that already fit are
// only re-encoded.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
func (s *ImageService) Thumbnail(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fit(bounds.Dx(), bounds.Dy(), maxSize)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// fit returns width and height scaled down to fit within maxSize, keeping
// the aspect ratio. Dimensions never drop below 1.
func fit(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}

	if width >= height {
		height = max(1, height*maxSize/width)
		width = maxSize
	} else {
		width = max(1, width*maxSize/height)
		height = maxSize
	}
	return width, height
}
