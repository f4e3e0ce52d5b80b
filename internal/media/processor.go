package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

var ErrInvalidImage = errors.New("invalid image")

// Processor 统一处理上传图片：按 EXIF 旋转、白底铺平、等比缩放到边界内、重新编码为 JPEG
type Processor struct {
	maxSide int
	quality int
}

func NewProcessor(maxSide, quality int) *Processor {
	if maxSide <= 0 {
		maxSide = 800
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{maxSide: maxSide, quality: quality}
}

// Process 返回处理后的 JPEG 字节；无法解码时返回 ErrInvalidImage
func (p *Processor) Process(r io.Reader) ([]byte, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	b := src.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	canvas = imaging.Overlay(canvas, src, image.Pt(0, 0), 1.0)

	// Fit 不会放大小图
	out := imaging.Fit(canvas, p.maxSide, p.maxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
