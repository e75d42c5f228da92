package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-creative-kit/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// opts は各コマンドで共有される実行時パラメータなのだ。
var opts config.GenerateOptions

// rootCmd は creative-kit のエントリポイントなのだ。
var rootCmd = &cobra.Command{
	Use:   "creative-kit",
	Short: "キャンペーンブリーフからマーケティング用クリエイティブを生成するのだ。",
	Long: `キャンペーンブリーフ（JSON）を読み込み、商品ごと・アスペクト比ごとの
クリエイティブ（PNG）を一括生成するのだ。既存アセットの再利用、AI画像生成への
フォールバック、ロケールに合わせたコピー適応までを一気通貫で行うのだよ。`,
	PersistentPreRunE: preRunAppE,
	SilenceUsage:      true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.BriefFile, "brief", "b", "", "キャンペーンブリーフ（JSON）のパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.AssetDir, "input-assets", "a", config.DefaultAssetDir, "既存アセットを探索するディレクトリなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputRoot, "output-root", "o", config.DefaultOutputRoot, "クリエイティブの出力ルートなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.GeneratedDir, "generated-dir", config.DefaultGeneratedDir, "生成画像をキャッシュするディレクトリなのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().BoolVar(&opts.UseRealGenerator, "use-real-generator", false, "Gemini による画像生成を有効にするのだ（GEMINI_API_KEY が必須なのだ）。")
	rootCmd.PersistentFlags().BoolVar(&opts.UseMockGenerator, "use-mock-generator", false, "APIキーがあってもモック生成を強制するのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Locale, "locale", "", "ブリーフの locale を上書きするのだ（例: ja-JP）。")
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "コピー適応に使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "画像生成に使用する Gemini モデル名なのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().IntVarP(&opts.Workers, "workers", "w", config.DefaultWorkers, "商品を並列処理するワーカー数なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.EnvHTTPTimeout(), "外部APIリクエストのタイムアウトなのだ（環境変数 REQUEST_TIMEOUT でも設定できるのだ）。")
	rootCmd.PersistentFlags().DurationVar(&opts.RateInterval, "rate-interval", config.EnvRateInterval(), "画像生成APIの呼び出し間隔なのだ（環境変数 RATE_INTERVAL でも設定できるのだ）。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// モック強制が指定された場合はリアル生成の指定と両立しないのだ
	if opts.UseRealGenerator && opts.UseMockGenerator {
		return fmt.Errorf("エラー: --use-real-generator と --use-mock-generator は同時に指定できないのだ")
	}

	// Gemini APIを利用する場合のみ、APIキーの存在チェックを行うのだ
	if opts.UseRealGenerator && os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。--use-real-generator には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	// .env があれば読み込むのだ。無くてもエラーにはしないのだ
	if err := godotenv.Load(); err == nil {
		slog.Debug(".env を読み込んだのだ")
	}

	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
