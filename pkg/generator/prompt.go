package generator

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// DefaultStyleSuffix は広告写真としての品質を一貫させるための標準の画風指定です。
const DefaultStyleSuffix = "clean, modern commercial photography, well-lit, realistic, studio-quality composition suitable for digital marketing creatives"

// productPromptTemplate は商品画像生成プロンプトの骨格です。
const productPromptTemplate = `High-quality advertising product photo for the brand {{.BrandName}}. Product name: {{.ProductName}}. {{if .ProductDescription}}Product description: {{.ProductDescription}}. {{end}}Target demographic: {{.Demographics}}. {{if .Tags}}Keywords and visual cues: {{.Tags}}. {{end}}Style: {{.StyleSuffix}}.`

// promptData はテンプレートに流し込むデータ構造です。
type promptData struct {
	BrandName          string
	ProductName        string
	ProductDescription string
	Demographics       string
	Tags               string
	StyleSuffix        string
}

// PromptBuilder はブランド・商品・ターゲット情報から画像生成プロンプトを構築します。
type PromptBuilder struct {
	tmpl        *template.Template
	styleSuffix string
}

// NewPromptBuilder は PromptBuilder を初期化します。
// styleSuffix が空の場合は標準の画風指定を使います。
func NewPromptBuilder(styleSuffix string) (*PromptBuilder, error) {
	tmpl, err := template.New("product_image").Parse(productPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("画像プロンプトテンプレートの解析に失敗しました: %w", err)
	}
	if styleSuffix == "" {
		styleSuffix = DefaultStyleSuffix
	}
	return &PromptBuilder{tmpl: tmpl, styleSuffix: styleSuffix}, nil
}

// Build は1商品分の画像生成プロンプトを生成します。
// demographics はマップのため、キーを整列して決定的な文字列にします。
func (pb *PromptBuilder) Build(brief *domain.CampaignBrief, product domain.Product) (string, error) {
	name := product.Name
	if name == "" {
		name = "a product"
	}

	data := promptData{
		BrandName:          brief.BrandName,
		ProductName:        name,
		ProductDescription: product.Description,
		Demographics:       formatDemographics(brief.Demographics),
		Tags:               strings.Join(product.Tags, ", "),
		StyleSuffix:        pb.styleSuffix,
	}

	var sb strings.Builder
	if err := pb.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("画像プロンプトの生成に失敗しました: %w", err)
	}
	return sb.String(), nil
}

func formatDemographics(demo map[string]string) string {
	if len(demo) == 0 {
		return "General active lifestyle audience"
	}

	keys := make([]string, 0, len(demo))
	for k := range demo {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, demo[k]))
	}
	return strings.Join(parts, "; ")
}
