package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	imagegen "github.com/shouni/gemini-image-kit/pkg/generator"
	"golang.org/x/time/rate"
)

// NegativeProductPrompt は商品写真として不適切な描画を抑止する標準セットです。
const NegativeProductPrompt = "text, watermark, logo overlays, collage, split frame, low quality, blurry, distorted proportions, deformed objects"

// productAspectRatio は素材画像の生成比率です。最終的なアスペクト比への
// 整形はコンポーザーが行うため、素材は正方形で統一します。
const productAspectRatio = "1:1"

// GeminiBackend は gemini-image-kit を用いたリモート画像生成バックエンドです。
// 呼び出しはレートリミッターで制御されます。
type GeminiBackend struct {
	gen     imagegen.ImageGenerator
	limiter *rate.Limiter
}

// NewGeminiBackend は GeminiBackend を初期化します。
func NewGeminiBackend(gen imagegen.ImageGenerator, limiter *rate.Limiter) (*GeminiBackend, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator: ImageGenerator は必須です")
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &GeminiBackend{gen: gen, limiter: limiter}, nil
}

// Generate はリモートの画像生成 API を呼び出し、ビットマップを返します。
// シードは商品IDから決定論的に導出し、再実行時の見た目の一貫性を保ちます。
func (b *GeminiBackend) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("generator: レート制限の待機に失敗しました: %w", err)
	}

	seed := SeedFromProductID(req.ProductID)
	logger := slog.With("product_id", req.ProductID, "seed", seed)
	logger.Info("Starting remote image generation")

	startTime := time.Now()
	resp, err := b.gen.GenerateMangaPanel(ctx, imagedom.ImageGenerationRequest{
		Prompt:         req.Prompt,
		NegativePrompt: NegativeProductPrompt,
		AspectRatio:    productAspectRatio,
		Seed:           &seed,
	})
	if err != nil {
		return nil, fmt.Errorf("generator: 商品 '%s' のリモート生成に失敗しました: %w", req.ProductID, err)
	}

	logger.Info("Remote image generation completed",
		"duration", time.Since(startTime).Round(time.Millisecond),
		"mime_type", resp.MimeType,
	)
	return resp.Data, nil
}
