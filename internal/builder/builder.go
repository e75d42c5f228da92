package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-creative-kit/pkg/asset"
	"github.com/shouni/go-creative-kit/pkg/compose"
	"github.com/shouni/go-creative-kit/pkg/generator"
	"github.com/shouni/go-creative-kit/pkg/messaging"
	"github.com/shouni/go-creative-kit/pkg/pipeline"

	"github.com/patrickmn/go-cache"
	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializeImageGenerator は ImageGeneratorを初期化します。
func InitializeImageGenerator(httpClient httpkit.ClientInterface, aiClient gemini.GenerativeModel, model string) (imagekit.ImageGenerator, error) {
	imgCache := cache.New(30*time.Minute, 1*time.Hour)
	cacheTTL := 1 * time.Hour

	// 画像処理コアを生成
	core, err := imagekit.NewGeminiImageCore(
		httpClient,
		imgCache,
		cacheTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCoreの初期化に失敗したのだ: %w", err)
	}

	imgGen, err := imagekit.NewGeminiGenerator(
		core,
		aiClient,
		model,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}

	return imgGen, nil
}

// BuildProducer は画像生成コンポーネントを構築するのだ。
// aiClient が nil の場合（モック運用）はリモートバックエンドなしで組み立てるのだ。
func BuildProducer(appCtx *AppContext) (*generator.Producer, error) {
	prompts, err := generator.NewPromptBuilder(appCtx.Config.ImagePromptSuffix)
	if err != nil {
		return nil, fmt.Errorf("PromptBuilderの初期化に失敗したのだ: %w", err)
	}

	var remote generator.Backend
	if appCtx.aiClient != nil {
		imgGen, err := InitializeImageGenerator(appCtx.httpClient, appCtx.aiClient, appCtx.Options.ImageModel)
		if err != nil {
			return nil, err
		}

		limiter := rate.NewLimiter(rate.Every(appCtx.Options.RateInterval), 2)
		remote, err = generator.NewGeminiBackend(imgGen, limiter)
		if err != nil {
			return nil, fmt.Errorf("GeminiBackendの初期化に失敗したのだ: %w", err)
		}
	}

	return generator.NewProducer(remote, generator.NewMockBackend(), prompts, appCtx.Options.GeneratedDir)
}

// BuildAdapter はコピー適応コンポーネントを構築するのだ。
// Gemini が使えない場合はブリーフのコピーをそのまま返すフォールバックを包むのだ。
func BuildAdapter(appCtx *AppContext) (*messaging.Memo, error) {
	var inner messaging.Adapter = messaging.NewFallbackAdapter()
	if appCtx.aiClient != nil {
		ga, err := messaging.NewGeminiAdapter(appCtx.aiClient, appCtx.Options.AIModel)
		if err != nil {
			return nil, fmt.Errorf("GeminiAdapterの初期化に失敗したのだ: %w", err)
		}
		inner = ga
	}
	return messaging.NewMemo(inner)
}

// BuildPipeline は全コンポーネントを組み立てて実行可能なパイプラインを返すのだ。
func BuildPipeline(appCtx *AppContext) (*pipeline.Pipeline, error) {
	producer, err := BuildProducer(appCtx)
	if err != nil {
		return nil, err
	}

	adapter, err := BuildAdapter(appCtx)
	if err != nil {
		return nil, err
	}

	composer, err := compose.NewComposer(appCtx.Options.OutputRoot)
	if err != nil {
		return nil, fmt.Errorf("Composerの初期化に失敗したのだ: %w", err)
	}

	resolver := asset.NewResolver(appCtx.Options.AssetDir)

	return pipeline.NewPipeline(resolver, producer, adapter, composer, appCtx.Options.Workers)
}
