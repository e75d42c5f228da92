// Package compose は、解決済みの素材画像・アスペクト比・適応済みコピー・
// ブランド設定から1枚のクリエイティブを合成します。
// 同一入力からは常にバイト単位で同一の出力を生成します（乱数は使いません）。
package compose

import (
	"context"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	// アセットリゾルバーが .webp を再利用対象とするため、デコーダを登録します
	_ "golang.org/x/image/webp"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// レイアウト比率。テキストブロックの位置とサイズは出力寸法から
// 比例計算し、固定ピクセルは使いません。
const (
	gradientHeightRatio = 0.45
	marginXRatio        = 0.07
	headlineScale       = 1.1
	bodyScale           = 0.5
	lineSpacing         = 1.35
)

// Composer は最終クリエイティブの合成と書き出しを担当します。
type Composer struct {
	outputRoot string
	fonts      *fontCache
}

// NewComposer は出力ルート配下に成果物を書き出す Composer を生成します。
// 出力ルートが作成できない場合は実行前の致命的エラーとして返します。
func NewComposer(outputRoot string) (*Composer, error) {
	if outputRoot == "" {
		return nil, fmt.Errorf("compose: 出力ルートは必須です")
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("compose: 出力ルート '%s' の作成に失敗しました: %w", outputRoot, err)
	}
	return &Composer{
		outputRoot: outputRoot,
		fonts:      newFontCache(),
	}, nil
}

// Compose は素材画像をアスペクト比に整形し、コピーを重ねて PNG を書き出します。
// 戻り値は成果物のパスです。再実行時は同じパスを上書きします。
func (c *Composer) Compose(ctx context.Context, asset domain.ResolvedAsset, aspect domain.AspectSpec, msg domain.AdaptedMessaging, brief *domain.CampaignBrief) (string, error) {
	src, err := imaging.Open(asset.Path)
	if err != nil {
		return "", fmt.Errorf("compose: 素材画像 '%s' の読み込みに失敗しました: %w", asset.Path, err)
	}

	// センタークロップしてからスケールし、被写体を中央に保ったまま歪みなく埋めます
	fitted := imaging.Fill(src, aspect.Width, aspect.Height, imaging.Center, imaging.Lanczos)

	dc := gg.NewContextForImage(fitted)
	if err := c.overlayText(dc, aspect, msg, brief); err != nil {
		return "", err
	}

	outputPath := domain.ArtifactPath(c.outputRoot, brief.CampaignID, domain.Slugify(asset.ProductID), aspect)
	if err := writePNG(outputPath, dc); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "クリエイティブを書き出しました",
		"product_id", asset.ProductID,
		"aspect", aspect.Name,
		"origin", string(asset.Origin),
		"path", outputPath,
	)
	return outputPath, nil
}

// overlayText は下部グラデーションの上に見出し・サブ見出し・CTA を描画します。
func (c *Composer) overlayText(dc *gg.Context, aspect domain.AspectSpec, msg domain.AdaptedMessaging, brief *domain.CampaignBrief) error {
	primary, err := ParseHexColor(brief.PrimaryColor)
	if err != nil {
		return err
	}
	secondary, err := ParseHexColor(brief.SecondaryColor)
	if err != nil {
		return err
	}

	w := float64(aspect.Width)
	h := float64(aspect.Height)

	// 可読性のための下部グラデーション
	gradientHeight := h * gradientHeightRatio
	grad := gg.NewLinearGradient(0, h-gradientHeight, 0, h)
	grad.AddColorStop(0, color.NRGBA{A: 0})
	grad.AddColorStop(1, color.NRGBA{A: 220})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, h-gradientHeight, w, gradientHeight)
	dc.Fill()

	// フォントサイズとテキスト開始位置はアスペクト比で調整します
	ratio := aspect.Ratio()
	baseSize := max(w, h) * 0.055
	y := h * 0.55
	if ratio > 1.5 {
		baseSize = max(w, h) * 0.06
		// 横長では下端のクリップを避けるため少し高い位置から始めます
		y = h * 0.5
	}

	marginX := w * marginXRatio
	maxWidth := w - 2*marginX

	headlineFace, err := c.fonts.Face(brief.FontPath, baseSize*headlineScale)
	if err != nil {
		return err
	}
	bodyFace, err := c.fonts.Face(brief.FontPath, baseSize*bodyScale)
	if err != nil {
		return err
	}

	// 見出し（ブランドのプライマリカラー）
	y = drawTextBlock(dc, headlineFace, msg.Headline, marginX, y, maxWidth, primary)

	// サブ見出し（セカンダリカラー）
	if msg.Subheading != "" {
		y += baseSize * 0.2
		y = drawTextBlock(dc, bodyFace, msg.Subheading, marginX, y, maxWidth, secondary)
	}

	// CTA ピル
	if msg.CallToAction != "" {
		y += baseSize * 0.35
		drawCTAPill(dc, bodyFace, msg.CallToAction, marginX, y, primary, secondary)
	}
	return nil
}

// drawTextBlock は折り返し付きでテキストを描画し、ブロック末尾の y 座標を返します。
func drawTextBlock(dc *gg.Context, face font.Face, text string, x, y, maxWidth float64, fill color.NRGBA) float64 {
	dc.SetFontFace(face)
	dc.SetColor(fill)

	lineHeight := dc.FontHeight() * lineSpacing
	for _, line := range dc.WordWrap(text, maxWidth) {
		y += lineHeight
		dc.DrawString(line, x, y)
	}
	return y
}

// drawCTAPill は角丸の塗りボックスに CTA テキストを描画します。
func drawCTAPill(dc *gg.Context, face font.Face, cta string, x, y float64, fill, textColor color.NRGBA) {
	dc.SetFontFace(face)

	textWidth, textHeight := dc.MeasureString(cta)
	padX := textHeight * 0.9
	padY := textHeight * 0.45
	boxW := textWidth + 2*padX
	boxH := textHeight + 2*padY

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, boxH/2)
	dc.Fill()

	dc.SetColor(textColor)
	dc.DrawString(cta, x+padX, y+padY+textHeight)
}

// writePNG は中間ディレクトリを作成しつつ PNG を書き出します。
// 既存ディレクトリの作成は冪等であり、並行実行でも競合しません。
func writePNG(path string, dc *gg.Context) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("compose: 出力ディレクトリの作成に失敗しました (path: %s): %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("compose: 出力ファイルの作成に失敗しました (path: %s): %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, dc.Image()); err != nil {
		return fmt.Errorf("compose: PNG のエンコードに失敗しました (path: %s): %w", path, err)
	}
	return nil
}
