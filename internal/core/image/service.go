package image

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 支援 WebP

	"recipe-engine/internal/pkg/common"
)

var (
	// ErrInvalidImage 無法解析的圖片資料
	ErrInvalidImage = errors.New("invalid image data")
	// ErrImageTooLarge 圖片超過大小限制
	ErrImageTooLarge = errors.New("image too large")
)

const dataURIPrefix = "data:image/"

// Service 冰箱照片正規化服務，輸出給視覺模型使用的 JPEG data URI
type Service struct {
	maxSizeBytes int64
	maxDimension int
	quality      int
}

// NewService 建立圖片處理服務；maxDimension <= 0 時不縮圖
func NewService(maxSizeBytes int64, maxDimension, quality int) *Service {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return &Service{
		maxSizeBytes: maxSizeBytes,
		maxDimension: maxDimension,
		quality:      quality,
	}
}

// Normalize 接受 data URI 或純 base64，回傳 JPEG data URI
func (s *Service) Normalize(imageData string) (string, error) {
	img, format, err := s.decode(imageData)
	if err != nil {
		return "", err
	}

	img = s.fit(img)

	// 將圖片轉換為 JPEG 格式
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	common.LogDebug("圖片已正規化",
		zap.String("原始格式", format),
		zap.Int("寬", img.Bounds().Dx()),
		zap.Int("高", img.Bounds().Dy()),
		zap.Int("輸出大小", buf.Len()),
	)

	// 重新編碼為 base64
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Validate 只檢查圖片是否可用，不重新編碼
func (s *Service) Validate(imageData string) error {
	_, _, err := s.decode(imageData)
	return err
}

// decode 解析 base64 並解碼圖片
func (s *Service) decode(imageData string) (image.Image, string, error) {
	payload := strings.TrimSpace(imageData)
	if payload == "" {
		return nil, "", fmt.Errorf("%w: empty", ErrInvalidImage)
	}
	if strings.HasPrefix(payload, "data:") {
		if !strings.HasPrefix(payload, dataURIPrefix) {
			return nil, "", fmt.Errorf("%w: not an image data URI", ErrInvalidImage)
		}
		_, after, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", fmt.Errorf("%w: invalid base64 data format", ErrInvalidImage)
		}
		payload = after
	}

	// 檢查文件大小，base64 解碼前先估算
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > s.maxSizeBytes+2 {
		return nil, "", fmt.Errorf("%w: exceeds %d bytes", ErrImageTooLarge, s.maxSizeBytes)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if int64(len(decoded)) > s.maxSizeBytes {
		return nil, "", fmt.Errorf("%w: exceeds %d bytes", ErrImageTooLarge, s.maxSizeBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if !isSupportedFormat(format) {
		return nil, "", fmt.Errorf("%w: unsupported format %s", ErrInvalidImage, format)
	}
	return img, format, nil
}

// fit 等比例縮小到 maxDimension 以內
func (s *Service) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if s.maxDimension <= 0 || (w <= s.maxDimension && h <= s.maxDimension) {
		return img
	}

	if w >= h {
		h = max(1, h*s.maxDimension/w)
		w = s.maxDimension
	} else {
		w = max(1, w*s.maxDimension/h)
		h = s.maxDimension
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
