package cmd

import (
	"fmt"

	"github.com/shouni/go-creative-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// validateCmd は、ブリーフの検証と生成プランのプレビューを行うのだ。
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "ブリーフを検証して生成プランを表示するのだ。",
	Long: `キャンペーンブリーフを読み込んで検証し、実際の生成は行わずに
商品×アスペクト比の出力プランを一覧表示するのだ。`,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	if opts.BriefFile == "" {
		return fmt.Errorf("ブリーフ（--brief）を指定してほしいのだ")
	}

	brief, err := domain.LoadBrief(opts.BriefFile)
	if err != nil {
		return fmt.Errorf("ブリーフの検証に失敗したのだ: %w", err)
	}
	if opts.Locale != "" {
		brief.Locale = opts.Locale
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ブリーフは有効なのだ: %s (%s)\n", brief.CampaignID, brief.BrandName)
	fmt.Fprintf(out, "ロケール: %s / 商品数: %d\n", brief.Locale, len(brief.Products))
	fmt.Fprintln(out, "生成プラン:")

	for _, product := range brief.Products {
		for _, aspect := range domain.AspectSpecs() {
			path := domain.ArtifactPath(opts.OutputRoot, brief.CampaignID, product.Slug(), aspect)
			fmt.Fprintf(out, "  %s × %s -> %s\n", product.Key(), aspect.Name, path)
		}
	}
	return nil
}
