// Package pipeline はキャンペーンブリーフから全クリエイティブの生成を
// オーケストレートする司令塔です。商品ごとのアセット解決・画像生成・
// コピー適応・合成を束ね、部分失敗をレポートに記録しながら実行を継続します。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-creative-kit/pkg/asset"
	"github.com/shouni/go-creative-kit/pkg/domain"
)

// DefaultWorkers は並列ワーカー数のデフォルト値です。
const DefaultWorkers = 4

// AssetResolver は既存アセットの発見インターフェースです。
// 見つからない場合は asset.ErrNotFound を返すことが契約です。
type AssetResolver interface {
	Resolve(product domain.Product) (domain.ResolvedAsset, error)
}

// ImageProducer はアセット欠落時に商品画像を生成するインターフェースです。
type ImageProducer interface {
	Produce(ctx context.Context, brief *domain.CampaignBrief, product domain.Product) (domain.ResolvedAsset, error)
}

// MessageAdapter は商品・ロケールに合わせたコピー適応のインターフェースです。
type MessageAdapter interface {
	Adapt(ctx context.Context, brief *domain.CampaignBrief, product domain.Product) (domain.AdaptedMessaging, error)
}

// CreativeComposer は1ペア（商品×アスペクト比）の合成インターフェースです。
type CreativeComposer interface {
	Compose(ctx context.Context, asset domain.ResolvedAsset, aspect domain.AspectSpec, msg domain.AdaptedMessaging, brief *domain.CampaignBrief) (string, error)
}

// Pipeline は各コンポーネントを束ねる実行単位です。
type Pipeline struct {
	resolver AssetResolver
	producer ImageProducer
	adapter  MessageAdapter
	composer CreativeComposer
	workers  int
}

// NewPipeline は各コンポーネントのインターフェースを受け取り、Pipeline を生成します。
// workers が 0 以下の場合は DefaultWorkers を使います。
func NewPipeline(resolver AssetResolver, producer ImageProducer, adapter MessageAdapter, composer CreativeComposer, workers int) (*Pipeline, error) {
	if resolver == nil || producer == nil || adapter == nil || composer == nil {
		return nil, fmt.Errorf("pipeline: すべてのコンポーネントが必須です")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pipeline{
		resolver: resolver,
		producer: producer,
		adapter:  adapter,
		composer: composer,
		workers:  workers,
	}, nil
}

// Run はブリーフの全商品 × 全アスペクト比を処理し、結果レポートを返します。
//
// 商品単位で並列実行し、1商品内の3アスペクト比は逐次合成します。
// 個別ペアの失敗はレポートに記録するだけで実行を中断しません。
// エラーを返すのはコンテキストのキャンセル時のみです。
func (pl *Pipeline) Run(ctx context.Context, brief *domain.CampaignBrief) (*domain.RunReport, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}

	report := domain.NewRunReport()
	aspects := domain.AspectSpecs()

	slog.InfoContext(ctx, "パイプラインを開始します",
		"campaign_id", brief.CampaignID,
		"products", len(brief.Products),
		"aspects", len(aspects),
		"workers", pl.workers,
	)
	startTime := time.Now()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(pl.workers)

	for _, product := range brief.Products {
		product := product
		eg.Go(func() error {
			// キャンセルは即座に伝播させます
			if err := egCtx.Err(); err != nil {
				return err
			}
			pl.runProduct(egCtx, brief, product, aspects, report)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return report, fmt.Errorf("pipeline: 実行が中断されました: %w", err)
	}

	slog.InfoContext(ctx, "パイプラインが完了しました",
		"campaign_id", brief.CampaignID,
		"items", report.Len(),
		"all_succeeded", report.AllSucceeded(),
		"duration", time.Since(startTime).Round(time.Millisecond),
	)
	return report, nil
}

// runProduct は1商品の全アスペクト比を処理します。
// アセットの取得に失敗した場合は全アスペクト比を同じ理由で失敗として記録します。
func (pl *Pipeline) runProduct(ctx context.Context, brief *domain.CampaignBrief, product domain.Product, aspects []domain.AspectSpec, report *domain.RunReport) {
	resolved, err := pl.acquireAsset(ctx, brief, product)
	if err != nil {
		slog.ErrorContext(ctx, "商品アセットの取得に失敗しました",
			"product_id", product.Key(), "error", err)
		for _, aspect := range aspects {
			report.Add(domain.ItemResult{
				ProductID: product.Key(),
				Aspect:    aspect.Name,
				Err:       err.Error(),
			})
		}
		return
	}

	// コピー適応は商品ごとに1回です。アダプターは失敗を
	// フォールバックとして吸収するため、ここでのエラーは想定外です。
	msg, err := pl.adapter.Adapt(ctx, brief, product)
	if err != nil {
		slog.WarnContext(ctx, "コピー適応に失敗したためブリーフのコピーを使用します",
			"product_id", product.Key(), "error", err)
		msg = domain.FallbackMessaging(brief)
	}

	for _, aspect := range aspects {
		item := domain.ItemResult{
			ProductID: product.Key(),
			Aspect:    aspect.Name,
			Origin:    resolved.Origin,
		}

		path, err := pl.composer.Compose(ctx, resolved, aspect, msg, brief)
		if err != nil {
			slog.ErrorContext(ctx, "クリエイティブの合成に失敗しました",
				"product_id", product.Key(), "aspect", aspect.Name, "error", err)
			item.Err = err.Error()
		} else {
			item.Path = path
		}
		report.Add(item)
	}
}

// acquireAsset は既存アセットの再利用を試み、見つからなければ生成に委ねます。
func (pl *Pipeline) acquireAsset(ctx context.Context, brief *domain.CampaignBrief, product domain.Product) (domain.ResolvedAsset, error) {
	resolved, err := pl.resolver.Resolve(product)
	if err == nil {
		slog.InfoContext(ctx, "既存アセットを再利用します",
			"product_id", product.Key(), "path", resolved.Path)
		return resolved, nil
	}
	if !errors.Is(err, asset.ErrNotFound) {
		return domain.ResolvedAsset{}, err
	}

	// NotFound は想定内の分岐です。生成にフォールバックします。
	return pl.producer.Produce(ctx, brief, product)
}
