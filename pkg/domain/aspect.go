package domain

import (
	"fmt"
	"path/filepath"
)

// AspectSpec は出力クリエイティブの固定アスペクト比を表します。
// このセットはエンジン側で固定されており、ブリーフからは変更できません。
type AspectSpec struct {
	Name   string // 出力ディレクトリ名に使う識別子（例: "1x1"）
	Width  int
	Height int
}

// 固定の出力形状。順序は出力レポートの並びにも使われます。
var aspectSpecs = []AspectSpec{
	{Name: "1x1", Width: 1080, Height: 1080},
	{Name: "9x16", Width: 1080, Height: 1920},
	{Name: "16x9", Width: 1920, Height: 1080},
}

// AspectSpecs は固定アスペクト比の一覧をコピーして返します。
func AspectSpecs() []AspectSpec {
	specs := make([]AspectSpec, len(aspectSpecs))
	copy(specs, aspectSpecs)
	return specs
}

// Ratio は幅/高さの比率を返します。
func (a AspectSpec) Ratio() float64 {
	return float64(a.Width) / float64(a.Height)
}

// ArtifactPath は成果物の出力パスを組み立てます。
// レイアウト: {outputRoot}/{campaign_id}/{product_slug}/{aspect}/{campaign_id}_{product_slug}_{aspect}.png
func ArtifactPath(outputRoot, campaignID, productSlug string, aspect AspectSpec) string {
	fileName := fmt.Sprintf("%s_%s_%s.png", campaignID, productSlug, aspect.Name)
	return filepath.Join(outputRoot, campaignID, productSlug, aspect.Name, fileName)
}
