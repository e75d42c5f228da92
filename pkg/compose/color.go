package compose

import (
	"fmt"
	"image/color"
	"strings"
)

// ParseHexColor は '#FF0000' または 'FF0000' 形式の色指定を解析します。
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("compose: 色指定 '%s' は6桁の16進数ではありません", s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("compose: 色指定 '%s' の解析に失敗しました: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
