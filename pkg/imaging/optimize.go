// Package imaging 提供图片压缩处理。作为显式流水线步骤由调用方在持久化前调用，
// 而不是隐藏在保存钩子里。
package imaging

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// MaxWidth 最大宽度
	MaxWidth = 800
	// MaxHeight 最大高度
	MaxHeight = 800
	// Quality JPEG 质量
	Quality = 85
)

// Optimize 缩放并压缩上传的图片，统一输出 JPEG。
// 返回处理后的数据与规范化后的文件名。
func Optimize(r io.Reader, name string) ([]byte, string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	// 超出上限时等比缩小，小图保持原尺寸
	bounds := img.Bounds()
	if bounds.Dx() > MaxWidth || bounds.Dy() > MaxHeight {
		img = imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), jpegName(name), nil
}

// jpegName 将文件名后缀替换为 .jpg
func jpegName(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name + ".jpg"
}
