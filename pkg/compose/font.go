package compose

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontCache はパース済みフォントをパス単位で保持します。
// ブリーフの font_path が使えない場合は埋め込みの Go Regular にフォールバックし、
// どの環境でも同じ入力から同じ出力が得られるようにします。
type fontCache struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

func newFontCache() *fontCache {
	return &fontCache{fonts: make(map[string]*opentype.Font)}
}

// Face は指定パスのフォントから描画フェイスを生成します。
// path が空、または読み込み・解析に失敗した場合は埋め込みフォントを使います。
func (fc *fontCache) Face(path string, size float64) (font.Face, error) {
	otFont, err := fc.load(path)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(otFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("compose: フォントフェイスの生成に失敗しました: %w", err)
	}
	return face, nil
}

func (fc *fontCache) load(path string) (*opentype.Font, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if f, ok := fc.fonts[path]; ok {
		return f, nil
	}

	data := goregular.TTF
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("フォントの読み込みに失敗したため埋め込みフォントを使用します",
				"path", path, "error", err)
		} else {
			data = fileData
		}
	}

	otFont, err := opentype.Parse(data)
	if err != nil {
		if path == "" {
			return nil, fmt.Errorf("compose: 埋め込みフォントの解析に失敗しました: %w", err)
		}
		slog.Warn("フォントの解析に失敗したため埋め込みフォントを使用します",
			"path", path, "error", err)
		otFont, err = opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("compose: 埋め込みフォントの解析に失敗しました: %w", err)
		}
	}

	fc.fonts[path] = otFont
	return otFont, nil
}
