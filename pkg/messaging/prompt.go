package messaging

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// copyPromptTemplate はコピー適応プロンプトの骨格です。
// モデルには厳密な JSON オブジェクトのみを返すよう指示します。
const copyPromptTemplate = `You are an expert marketing copywriter generating ad copy for a multi-asset campaign.
- Write copy in locale: {{.Locale}}.
- Use natural, fluent language for that locale, appropriate for the target demographics.
- Keep the headline punchy (max ~8 words) and benefit-driven.
- Make the description a short, punchy sales pitch (1-2 sentences) that clearly targets the given demographics and highlights product benefits.
- The call_to_action should be a short imperative phrase (e.g. 'Shop now') preserving the intent of the existing one.

Context:
- Brand: "{{.BrandName}}"
- Campaign: "{{.CampaignName}}"
- Product name: "{{.ProductName}}"
- Product description: {{.ProductDescription}}
- Product tags: {{.Tags}}
- Target demographics: {{.Demographics}}
- Existing headline: "{{.ExistingHeadline}}"
- Existing description: "{{.ExistingSubheading}}"
- Existing call_to_action: "{{.ExistingCTA}}"

Return ONLY a valid JSON object with this exact shape and no surrounding commentary:
{
  "headline": "string",
  "description": "string",
  "call_to_action": "string"
}
`

// copyPromptData はテンプレートに渡すデータ構造です。
type copyPromptData struct {
	Locale             string
	BrandName          string
	CampaignName       string
	ProductName        string
	ProductDescription string
	Tags               string
	Demographics       string
	ExistingHeadline   string
	ExistingSubheading string
	ExistingCTA        string
}

var copyPrompt = template.Must(template.New("copy_adaptation").Parse(copyPromptTemplate))

// buildCopyPrompt は1商品分のコピー適応プロンプトを生成します。
func buildCopyPrompt(brief *domain.CampaignBrief, product domain.Product) (string, error) {
	tags := strings.Join(product.Tags, ", ")
	if tags == "" {
		tags = "none"
	}

	data := copyPromptData{
		Locale:             brief.Locale,
		BrandName:          brief.BrandName,
		CampaignName:       brief.CampaignName,
		ProductName:        product.Name,
		ProductDescription: product.Description,
		Tags:               tags,
		Demographics:       formatDemographics(brief.Demographics),
		ExistingHeadline:   brief.Messaging.Headline,
		ExistingSubheading: brief.Messaging.SubheadingText(),
		ExistingCTA:        brief.Messaging.CallToAction,
	}

	var sb strings.Builder
	if err := copyPrompt.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("messaging: プロンプトの生成に失敗しました: %w", err)
	}
	return sb.String(), nil
}

func formatDemographics(demo map[string]string) string {
	if len(demo) == 0 {
		return "unspecified"
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
	return strings.Join(parts, ", ")
}
