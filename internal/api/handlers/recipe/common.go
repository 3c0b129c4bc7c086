package recipe

import (
	"strings"
)

// describeImage 圖片資料的格式描述（用於日誌記錄，不輸出內容）
func describeImage(image string) string {
	switch {
	case image == "":
		return "empty"
	case strings.HasPrefix(image, "data:image/"):
		mime, _, ok := strings.Cut(strings.TrimPrefix(image, "data:image/"), ";base64,")
		if !ok {
			return "invalid_data_uri"
		}
		return "data_uri_" + mime
	case strings.HasPrefix(image, "/9j/"):
		return "base64_jpeg"
	case strings.HasPrefix(image, "iVBORw0KGgo"):
		return "base64_png"
	default:
		return "base64_unknown"
	}
}
