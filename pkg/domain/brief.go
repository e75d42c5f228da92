package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// デフォルト値の定義
const (
	DefaultPrimaryColor   = "#111827"
	DefaultSecondaryColor = "#F97316"
	DefaultLocale         = "en-US"
)

// CampaignMessaging はブリーフに記載されたキャンペーン共通のコピーを保持します。
// `description` が正式なフィールド名で、旧形式の `subheading` も受理します。
type CampaignMessaging struct {
	Headline     string `json:"headline"`
	Description  string `json:"description"`
	Subheading   string `json:"subheading,omitempty"`
	CallToAction string `json:"call_to_action"`
}

// SubheadingText はサブ見出しとして使うテキストを返します。
// description を優先し、旧フィールドの subheading を後方互換として扱います。
func (m CampaignMessaging) SubheadingText() string {
	if m.Description != "" {
		return m.Description
	}
	return m.Subheading
}

// Product はキャンペーン対象の1商品を表します。
type Product struct {
	ID          string   `json:"id"`
	SKU         string   `json:"sku,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	AssetPath   string   `json:"asset_path,omitempty"`
}

// Key は商品を一意に識別するキーを返します。
// id が無い場合は sku、name の順でフォールバックします。
func (p Product) Key() string {
	switch {
	case p.ID != "":
		return p.ID
	case p.SKU != "":
		return p.SKU
	default:
		return p.Name
	}
}

// Slug はファイルシステム上で安全な商品識別子を返します。
func (p Product) Slug() string {
	return Slugify(p.Key())
}

// CampaignBrief は宣言的なキャンペーンブリーフ全体を保持します。
// 一度ロードされたブリーフは不変として扱います。
type CampaignBrief struct {
	CampaignID     string            `json:"campaign_id"`
	CampaignName   string            `json:"campaign_name"`
	BrandName      string            `json:"brand_name"`
	PrimaryColor   string            `json:"primary_color"`
	SecondaryColor string            `json:"secondary_color"`
	Messaging      CampaignMessaging `json:"messaging"`
	Products       []Product         `json:"products"`
	Locale         string            `json:"locale"`
	Demographics   map[string]string `json:"demographics,omitempty"`
	FontPath       string            `json:"font_path,omitempty"`
}

// LoadBrief はブリーフ JSON を読み込み、デフォルト値の補完と検証を行います。
// 検証エラーは実行前に中断すべき致命的な設定エラーです。
func LoadBrief(path string) (*CampaignBrief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ブリーフ '%s' の読み込みに失敗しました: %w", path, err)
	}

	var brief CampaignBrief
	if err := json.Unmarshal(data, &brief); err != nil {
		return nil, fmt.Errorf("ブリーフ '%s' のデコードに失敗しました: %w", path, err)
	}

	brief.applyDefaults()
	if err := brief.Validate(); err != nil {
		return nil, err
	}
	return &brief, nil
}

// applyDefaults は省略されたフィールドに元実装と同じデフォルトを補完します。
func (b *CampaignBrief) applyDefaults() {
	if b.Messaging.Headline == "" {
		b.Messaging.Headline = b.CampaignName
	}
	if b.PrimaryColor == "" {
		b.PrimaryColor = DefaultPrimaryColor
	}
	if b.SecondaryColor == "" {
		b.SecondaryColor = DefaultSecondaryColor
	}
	if b.Locale == "" {
		b.Locale = DefaultLocale
	}
}

// Validate はブリーフの必須項目と識別子の安全性を検証します。
func (b *CampaignBrief) Validate() error {
	if b.CampaignID == "" {
		return fmt.Errorf("ブリーフ検証: campaign_id は必須です")
	}
	if !isSafeID(b.CampaignID) {
		return fmt.Errorf("ブリーフ検証: campaign_id '%s' はファイルシステムで安全な識別子ではありません", b.CampaignID)
	}
	if b.BrandName == "" {
		return fmt.Errorf("ブリーフ検証: brand_name は必須です")
	}
	if len(b.Products) == 0 {
		return fmt.Errorf("ブリーフ検証: products が空です")
	}

	seen := make(map[string]int, len(b.Products))
	for i, p := range b.Products {
		if p.Key() == "" {
			return fmt.Errorf("ブリーフ検証: %d 番目の商品に id/sku/name がいずれもありません", i+1)
		}
		slug := p.Slug()
		if prev, ok := seen[slug]; ok {
			return fmt.Errorf("ブリーフ検証: 商品識別子 '%s' が %d 番目と %d 番目で重複しています", slug, prev+1, i+1)
		}
		seen[slug] = i
	}
	return nil
}
