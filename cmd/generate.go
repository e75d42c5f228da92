package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-creative-kit/internal/builder"
	"github.com/shouni/go-creative-kit/internal/config"
	"github.com/shouni/go-creative-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/spf13/cobra"
)

// generateCmd は、ブリーフの全商品×全アスペクト比のクリエイティブ生成を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "ブリーフからクリエイティブを一括生成するのだ。",
	Long: `キャンペーンブリーフを読み込み、商品ごとにアセットの再利用または生成を行い、
コピーを重ねた最終クリエイティブ（PNG）を全アスペクト比で書き出すのだ。
一部のペアが失敗しても残りの生成は継続され、最後に失敗の一覧が報告されるのだよ。`,
	RunE: generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.BriefFile == "" {
		return fmt.Errorf("ブリーフ（--brief）を指定してほしいのだ")
	}

	// 2. ブリーフのロードと検証。ここでの失敗は実行前に中断するのだ
	brief, err := domain.LoadBrief(opts.BriefFile)
	if err != nil {
		return fmt.Errorf("ブリーフの読み込みに失敗したのだ: %w", err)
	}
	if opts.Locale != "" {
		brief.Locale = opts.Locale
	}

	// 3. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("クリエイティブ生成パイプラインを起動するのだ！",
		"campaign_id", brief.CampaignID,
		"products", len(brief.Products),
		"locale", brief.Locale,
		"use_real_generator", useRealBackend(),
		"output_root", opts.OutputRoot)

	// 4. AIクライアントはリアル生成が要求された場合のみ初期化するのだ
	var aiClient gemini.GenerativeModel
	httpClient := httpkit.New(opts.HTTPTimeout)
	if useRealBackend() {
		aiClient, err = builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("AIクライアントの初期化に失敗したのだ: %w", err)
		}
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient)
	pl, err := builder.BuildPipeline(&appCtx)
	if err != nil {
		return fmt.Errorf("パイプラインの組み立てに失敗したのだ: %w", err)
	}

	// 5. 実行。個別ペアの失敗はレポートに集約されるのだ
	report, err := pl.Run(ctx, brief)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	for _, item := range report.Items() {
		if item.Succeeded() {
			slog.Info("生成完了なのだ", "product_id", item.ProductID, "aspect", item.Aspect, "origin", string(item.Origin), "path", item.Path)
		} else {
			slog.Error("生成失敗なのだ", "product_id", item.ProductID, "aspect", item.Aspect, "reason", item.Err)
		}
	}

	if !report.AllSucceeded() {
		return fmt.Errorf("一部のクリエイティブ生成に失敗したのだ:\n%s", report.Summary())
	}

	slog.Info("すべての生成工程が完了したのだ！", "summary", report.Summary())
	return nil
}

// useRealBackend はリモート生成を使うべきかを判定するのだ。
func useRealBackend() bool {
	return opts.UseRealGenerator && !opts.UseMockGenerator
}
