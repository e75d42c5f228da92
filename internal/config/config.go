package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel        = "gemini-3-flash-preview"
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultRateLimit    = 30 * time.Second
	DefaultWorkers      = 4
	DefaultAssetDir     = "assets"             // 既存アセットの探索ルートなのだ
	DefaultOutputRoot   = "outputs"            // 成果物の出力ルートなのだ
	DefaultGeneratedDir = "outputs/_generated" // 生成画像のキャッシュ先なのだ
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey      string
	GeminiModel       string
	GeminiImageModel  string
	ImagePromptSuffix string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// IMAGE_PROMPT_SUFFIX が空の場合は generator 側のデフォルトスタイルが使われるのだ。
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey:      envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:       envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel:  envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		ImagePromptSuffix: envutil.GetEnv("IMAGE_PROMPT_SUFFIX", ""),
	}
	return cfg
}

// EnvHTTPTimeout は REQUEST_TIMEOUT 環境変数を読むのだ。未設定・解釈不能ならデフォルトなのだ。
func EnvHTTPTimeout() time.Duration {
	return envDuration("REQUEST_TIMEOUT", DefaultHTTPTimeout)
}

// EnvRateInterval は RATE_INTERVAL 環境変数を読むのだ。未設定・解釈不能ならデフォルトなのだ。
func EnvRateInterval() time.Duration {
	return envDuration("RATE_INTERVAL", DefaultRateLimit)
}

// envDuration は時間系の環境変数を time.ParseDuration で解釈するのだ。
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	BriefFile string // --brief
	AssetDir  string // --input-assets

	// 生成結果の出力設定
	OutputRoot   string // --output-root
	GeneratedDir string // --generated-dir

	// AI挙動設定
	UseRealGenerator bool   // --use-real-generator: Gemini による画像生成を有効にするのだ
	UseMockGenerator bool   // --use-mock-generator: APIキーがあってもモック生成を強制するのだ
	Locale           string // --locale: ブリーフの locale を上書きするのだ
	AIModel          string // --model: コピー適応用のGeminiモデル
	ImageModel       string // --image-model: 画像生成用のGeminiモデル

	// 実行制御
	Workers      int           // --workers
	HTTPTimeout  time.Duration // --http-timeout
	RateInterval time.Duration // --rate-interval
}
