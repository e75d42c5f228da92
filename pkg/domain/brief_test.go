package domain

import (
	"os"
	"path/filepath"
	"testing"
)

func writeBrief(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brief.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("ブリーフの書き込みに失敗しました: %v", err)
	}
	return path
}

func TestLoadBrief(t *testing.T) {
	t.Run("正常なブリーフを読み込めること", func(t *testing.T) {
		path := writeBrief(t, `{
			"campaign_id": "fall_launch_2025",
			"campaign_name": "Fall Launch",
			"brand_name": "TrailWorks",
			"primary_color": "#F97316",
			"secondary_color": "#FFFFFF",
			"messaging": {
				"headline": "Run Further",
				"description": "Built for the long trail.",
				"call_to_action": "Shop now"
			},
			"locale": "en-US",
			"products": [
				{"id": "trail-runner-shoe", "name": "Trail Runner Shoe", "tags": ["shoes", "outdoor"]}
			]
		}`)

		brief, err := LoadBrief(path)
		if err != nil {
			t.Fatalf("正常なブリーフでエラーが発生しました: %v", err)
		}
		if brief.CampaignID != "fall_launch_2025" {
			t.Errorf("campaign_id が違います: %s", brief.CampaignID)
		}
		if brief.Messaging.SubheadingText() != "Built for the long trail." {
			t.Errorf("サブ見出しが違います: %s", brief.Messaging.SubheadingText())
		}
	})

	t.Run("省略フィールドにデフォルトが補完されること", func(t *testing.T) {
		path := writeBrief(t, `{
			"campaign_id": "minimal",
			"campaign_name": "Minimal",
			"brand_name": "Brand",
			"products": [{"id": "p1", "name": "P1"}]
		}`)

		brief, err := LoadBrief(path)
		if err != nil {
			t.Fatalf("読み込みに失敗しました: %v", err)
		}
		if brief.PrimaryColor != DefaultPrimaryColor {
			t.Errorf("primary_color のデフォルトが違います: %s", brief.PrimaryColor)
		}
		if brief.SecondaryColor != DefaultSecondaryColor {
			t.Errorf("secondary_color のデフォルトが違います: %s", brief.SecondaryColor)
		}
		if brief.Locale != DefaultLocale {
			t.Errorf("locale のデフォルトが違います: %s", brief.Locale)
		}
		if brief.Messaging.Headline != "Minimal" {
			t.Errorf("headline は campaign_name にフォールバックすべきです: %s", brief.Messaging.Headline)
		}
	})

	t.Run("旧形式の subheading を受理すること", func(t *testing.T) {
		path := writeBrief(t, `{
			"campaign_id": "legacy",
			"campaign_name": "Legacy",
			"brand_name": "Brand",
			"messaging": {"headline": "H", "subheading": "Old field"},
			"products": [{"id": "p1", "name": "P1"}]
		}`)

		brief, err := LoadBrief(path)
		if err != nil {
			t.Fatalf("読み込みに失敗しました: %v", err)
		}
		if brief.Messaging.SubheadingText() != "Old field" {
			t.Errorf("subheading エイリアスが使われていません: %s", brief.Messaging.SubheadingText())
		}
	})

	t.Run("不正なJSONでエラーが返ること", func(t *testing.T) {
		path := writeBrief(t, `{ invalid json }`)
		if _, err := LoadBrief(path); err == nil {
			t.Error("不正なJSONでエラーが発生しませんでした")
		}
	})
}

func TestCampaignBriefValidate(t *testing.T) {
	valid := func() CampaignBrief {
		return CampaignBrief{
			CampaignID: "camp-1",
			BrandName:  "Brand",
			Products:   []Product{{ID: "p1", Name: "P1"}},
		}
	}

	t.Run("campaign_id が無いとエラーになること", func(t *testing.T) {
		b := valid()
		b.CampaignID = ""
		if err := b.Validate(); err == nil {
			t.Error("campaign_id 欠落でエラーが発生しませんでした")
		}
	})

	t.Run("安全でない campaign_id がエラーになること", func(t *testing.T) {
		b := valid()
		b.CampaignID = "camp/1"
		if err := b.Validate(); err == nil {
			t.Error("スラッシュを含む campaign_id でエラーが発生しませんでした")
		}
	})

	t.Run("商品が空だとエラーになること", func(t *testing.T) {
		b := valid()
		b.Products = nil
		if err := b.Validate(); err == nil {
			t.Error("products 空でエラーが発生しませんでした")
		}
	})

	t.Run("商品識別子の重複がエラーになること", func(t *testing.T) {
		b := valid()
		b.Products = []Product{{ID: "p1"}, {ID: "P1"}} // スラッグとして衝突する
		if err := b.Validate(); err == nil {
			t.Error("重複識別子でエラーが発生しませんでした")
		}
	})

	t.Run("sku のみの商品も受理されること", func(t *testing.T) {
		b := valid()
		b.Products = []Product{{SKU: "SKU-001", Name: "No ID"}}
		if err := b.Validate(); err != nil {
			t.Errorf("sku のみの商品でエラーが発生しました: %v", err)
		}
		if b.Products[0].Slug() != "sku-001" {
			t.Errorf("sku からのスラッグが違います: %s", b.Products[0].Slug())
		}
	})
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Trail Runner Shoe", "trail-runner-shoe"},
		{"trail-runner-shoe", "trail-runner-shoe"},
		{"  Hello__World!! ", "hello-world"},
		{"", "item"},
		{"///", "item"},
		{"ABC123", "abc123"},
	}

	for _, c := range cases {
		if got := Slugify(c.input); got != c.expected {
			t.Errorf("Slugify(%q): 期待値 %q, 実際の値 %q", c.input, c.expected, got)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	specs := AspectSpecs()
	if len(specs) != 3 {
		t.Fatalf("アスペクト比は3種類固定のはずです: %d", len(specs))
	}

	got := ArtifactPath("outputs", "fall_launch_2025", "trail-runner-shoe", specs[0])
	expected := filepath.Join("outputs", "fall_launch_2025", "trail-runner-shoe", "1x1",
		"fall_launch_2025_trail-runner-shoe_1x1.png")
	if got != expected {
		t.Errorf("出力パスが違います。期待: %s, 実際: %s", expected, got)
	}
}
