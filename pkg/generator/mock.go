package generator

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// モック画像の固定パラメータ。出力をバイト単位で再現可能にするため、
// ここの値とシード以外に描画へ影響する入力はありません。
const (
	mockSize        = 1024
	mockMargin      = 48.0
	mockCaptionSize = 22.0
	mockTitleSize   = 44.0
	mockMaxCaption  = 180
)

// MockBackend はネットワークを一切必要としない決定論的なプレースホルダー生成器です。
// すべての疑似乱数は商品IDのシードから導出されるため、同じ商品に対する
// 出力は実行をまたいでバイト単位で一致します。
type MockBackend struct {
	fontOnce sync.Once
	fontErr  error
	otFont   *opentype.Font
}

// NewMockBackend は MockBackend を生成します。
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Generate はシード由来の帯模様と商品キャプションを持つ PNG を合成します。
func (m *MockBackend) Generate(_ context.Context, req Request) ([]byte, error) {
	seed := SeedFromProductID(req.ProductID)

	dc := gg.NewContext(mockSize, mockSize)

	// 背景色はシードから導出
	bg := seededColor(seed, 0x2f)
	dc.SetColor(bg)
	dc.Clear()

	// アクセントの斜め帯。帯の間隔と太さもシードに従います
	accent := seededColor(seed>>8, 0x9f)
	step := 120.0 + float64(seed%5)*24.0
	width := 28.0 + float64((seed>>4)%4)*10.0
	dc.SetColor(accent)
	dc.SetLineWidth(width)
	for x := -float64(mockSize); x < float64(mockSize)*2; x += step {
		dc.DrawLine(x, 0, x+float64(mockSize), float64(mockSize))
		dc.Stroke()
	}

	if err := m.drawCaption(dc, req); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("generator: モック画像のエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCaption は下部の半透明ボックスに商品IDとプロンプトの抜粋を描画します。
// 目視でパイプラインの動作確認ができるようにするためのものです。
func (m *MockBackend) drawCaption(dc *gg.Context, req Request) error {
	titleFace, err := m.face(mockTitleSize)
	if err != nil {
		return err
	}
	captionFace, err := m.face(mockCaptionSize)
	if err != nil {
		return err
	}

	snippet := truncateCaption(req.Prompt, mockMaxCaption)

	boxTop := float64(mockSize) * 0.68
	dc.SetColor(color.NRGBA{R: 0, G: 0, B: 0, A: 180})
	dc.DrawRectangle(0, boxTop, float64(mockSize), float64(mockSize)-boxTop)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetFontFace(titleFace)
	dc.DrawString(req.ProductID, mockMargin, boxTop+mockMargin+mockTitleSize/2)

	dc.SetFontFace(captionFace)
	dc.DrawStringWrapped(snippet,
		mockMargin, boxTop+mockMargin+mockTitleSize+24,
		0, 0,
		float64(mockSize)-2*mockMargin,
		1.4,
		gg.AlignLeft,
	)
	return nil
}

// face は埋め込みフォントから指定サイズの描画フェイスを生成します。
func (m *MockBackend) face(size float64) (font.Face, error) {
	m.fontOnce.Do(func() {
		m.otFont, m.fontErr = opentype.Parse(goregular.TTF)
	})
	if m.fontErr != nil {
		return nil, fmt.Errorf("generator: 埋め込みフォントの解析に失敗しました: %w", m.fontErr)
	}

	face, err := opentype.NewFace(m.otFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("generator: フォントフェイスの生成に失敗しました: %w", err)
	}
	return face, nil
}

// truncateCaption はキャプションをルーン境界で切り詰めます。
// バイト単位で切ると多バイト文字が途中で壊れるため、ルーン数で数えます。
func truncateCaption(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// seededColor はシードの下位バイトから floor 以上の明度を持つ色を導出します。
func seededColor(seed int64, floor uint8) color.NRGBA {
	lift := func(b byte) uint8 {
		v := uint16(b)
		f := uint16(floor)
		return uint8(f + v*(255-f)/255)
	}
	return color.NRGBA{
		R: lift(byte(seed)),
		G: lift(byte(seed >> 16)),
		B: lift(byte(seed >> 32)),
		A: 255,
	}
}
