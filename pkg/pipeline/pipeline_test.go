package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shouni/go-creative-kit/pkg/asset"
	"github.com/shouni/go-creative-kit/pkg/domain"
)

// stubResolver は商品IDごとに結果を切り替えるスタブです。
type stubResolver struct {
	found map[string]domain.ResolvedAsset
	errs  map[string]error
}

func (s *stubResolver) Resolve(product domain.Product) (domain.ResolvedAsset, error) {
	key := product.Key()
	if err, ok := s.errs[key]; ok {
		return domain.ResolvedAsset{}, err
	}
	if a, ok := s.found[key]; ok {
		return a, nil
	}
	return domain.ResolvedAsset{}, asset.ErrNotFound
}

type stubProducer struct {
	calls atomic.Int64
	err   error
}

func (s *stubProducer) Produce(_ context.Context, _ *domain.CampaignBrief, product domain.Product) (domain.ResolvedAsset, error) {
	s.calls.Add(1)
	if s.err != nil {
		return domain.ResolvedAsset{}, s.err
	}
	return domain.ResolvedAsset{
		ProductID: product.Key(),
		Path:      "generated/" + product.Slug() + ".png",
		Origin:    domain.OriginMock,
	}, nil
}

type stubAdapter struct{}

func (stubAdapter) Adapt(_ context.Context, brief *domain.CampaignBrief, _ domain.Product) (domain.AdaptedMessaging, error) {
	return domain.FallbackMessaging(brief), nil
}

// stubComposer は failAspects に含まれるアスペクト比だけ失敗します。
type stubComposer struct {
	calls       atomic.Int64
	failAspects map[string]struct{}
}

func (s *stubComposer) Compose(_ context.Context, a domain.ResolvedAsset, aspect domain.AspectSpec, _ domain.AdaptedMessaging, brief *domain.CampaignBrief) (string, error) {
	s.calls.Add(1)
	if _, ok := s.failAspects[aspect.Name]; ok {
		return "", fmt.Errorf("compose: アスペクト比 %s の合成に失敗しました", aspect.Name)
	}
	return domain.ArtifactPath("outputs", brief.CampaignID, domain.Slugify(a.ProductID), aspect), nil
}

func pipelineBrief(productIDs ...string) *domain.CampaignBrief {
	products := make([]domain.Product, 0, len(productIDs))
	for _, id := range productIDs {
		products = append(products, domain.Product{ID: id, Name: "Product " + id})
	}
	return &domain.CampaignBrief{
		CampaignID: "camp-1",
		BrandName:  "Brand",
		Messaging: domain.CampaignMessaging{
			Headline:     "H",
			Description:  "D",
			CallToAction: "C",
		},
		Products: products,
	}
}

func TestPipelineRun(t *testing.T) {
	t.Run("全商品×全アスペクト比のペアが生成されること", func(t *testing.T) {
		resolver := &stubResolver{found: map[string]domain.ResolvedAsset{
			"p1": {ProductID: "p1", Path: "assets/p1.png", Origin: domain.OriginReused},
			"p2": {ProductID: "p2", Path: "assets/p2.png", Origin: domain.OriginReused},
		}}
		producer := &stubProducer{}
		composer := &stubComposer{}

		pl, err := NewPipeline(resolver, producer, stubAdapter{}, composer, 2)
		if err != nil {
			t.Fatalf("Pipeline の初期化に失敗しました: %v", err)
		}

		report, err := pl.Run(context.Background(), pipelineBrief("p1", "p2"))
		if err != nil {
			t.Fatalf("Run がエラーを返しました: %v", err)
		}

		if report.Len() != 6 {
			t.Errorf("ペア数が違います。期待: 6, 実際: %d", report.Len())
		}
		if !report.AllSucceeded() {
			t.Errorf("全ペア成功のはずです: %s", report.Summary())
		}
		if got := producer.calls.Load(); got != 0 {
			t.Errorf("全商品にアセットがあるのに生成が呼ばれました: %d 回", got)
		}
	})

	t.Run("アセット未発見の商品は生成にフォールバックすること", func(t *testing.T) {
		resolver := &stubResolver{}
		producer := &stubProducer{}
		composer := &stubComposer{}

		pl, err := NewPipeline(resolver, producer, stubAdapter{}, composer, 1)
		if err != nil {
			t.Fatalf("Pipeline の初期化に失敗しました: %v", err)
		}

		report, err := pl.Run(context.Background(), pipelineBrief("p1"))
		if err != nil {
			t.Fatalf("Run がエラーを返しました: %v", err)
		}

		if got := producer.calls.Load(); got != 1 {
			t.Errorf("生成の呼び出し回数が違います。期待: 1, 実際: %d", got)
		}
		for _, item := range report.Items() {
			if item.Origin != domain.OriginMock {
				t.Errorf("origin が mock ではありません: %+v", item)
			}
		}
	})

	t.Run("1ペアの合成失敗が他のペアを止めないこと", func(t *testing.T) {
		resolver := &stubResolver{found: map[string]domain.ResolvedAsset{
			"p1": {ProductID: "p1", Path: "assets/p1.png", Origin: domain.OriginReused},
			"p2": {ProductID: "p2", Path: "assets/p2.png", Origin: domain.OriginReused},
		}}
		composer := &stubComposer{failAspects: map[string]struct{}{"9x16": {}}}

		pl, err := NewPipeline(resolver, &stubProducer{}, stubAdapter{}, composer, 2)
		if err != nil {
			t.Fatalf("Pipeline の初期化に失敗しました: %v", err)
		}

		report, err := pl.Run(context.Background(), pipelineBrief("p1", "p2"))
		if err != nil {
			t.Fatalf("部分失敗で Run がエラーを返しました: %v", err)
		}

		if report.Len() != 6 {
			t.Errorf("失敗時もペア数は 6 のはずです: %d", report.Len())
		}
		failed := report.FailedItems()
		if len(failed) != 2 {
			t.Fatalf("失敗ペア数が違います。期待: 2, 実際: %d", len(failed))
		}
		for _, item := range failed {
			if item.Aspect != "9x16" {
				t.Errorf("失敗すべきでないアスペクト比が失敗しています: %+v", item)
			}
		}
		if !strings.Contains(report.Summary(), "9x16") {
			t.Errorf("サマリに失敗ペアが列挙されていません: %s", report.Summary())
		}
	})

	t.Run("アセット取得の失敗が商品の全ペアに記録されること", func(t *testing.T) {
		resolver := &stubResolver{
			found: map[string]domain.ResolvedAsset{
				"p2": {ProductID: "p2", Path: "assets/p2.png", Origin: domain.OriginReused},
			},
			errs: map[string]error{"p1": errors.New("走査に失敗しました")},
		}
		composer := &stubComposer{}

		pl, err := NewPipeline(resolver, &stubProducer{}, stubAdapter{}, composer, 2)
		if err != nil {
			t.Fatalf("Pipeline の初期化に失敗しました: %v", err)
		}

		report, err := pl.Run(context.Background(), pipelineBrief("p1", "p2"))
		if err != nil {
			t.Fatalf("Run がエラーを返しました: %v", err)
		}

		failed := report.FailedItems()
		if len(failed) != 3 {
			t.Fatalf("p1 の3ペアが失敗するはずです。実際: %d", len(failed))
		}
		for _, item := range failed {
			if item.ProductID != "p1" {
				t.Errorf("p1 以外が失敗しています: %+v", item)
			}
		}
		// p2 は影響を受けない
		if report.Len() != 6 {
			t.Errorf("合計ペア数が違います: %d", report.Len())
		}
	})

	t.Run("キャンセルされたコンテキストでエラーが返ること", func(t *testing.T) {
		resolver := &stubResolver{found: map[string]domain.ResolvedAsset{
			"p1": {ProductID: "p1", Path: "assets/p1.png", Origin: domain.OriginReused},
		}}

		pl, err := NewPipeline(resolver, &stubProducer{}, stubAdapter{}, &stubComposer{}, 1)
		if err != nil {
			t.Fatalf("Pipeline の初期化に失敗しました: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := pl.Run(ctx, pipelineBrief("p1")); err == nil {
			t.Error("キャンセル済みコンテキストでエラーが返りませんでした")
		}
	})

	t.Run("不正なブリーフは実行前に拒否されること", func(t *testing.T) {
		pl, err := NewPipeline(&stubResolver{}, &stubProducer{}, stubAdapter{}, &stubComposer{}, 1)
		if err != nil {
			t.Fatalf("Pipeline の初期化に失敗しました: %v", err)
		}

		bad := pipelineBrief("p1")
		bad.CampaignID = ""
		if _, err := pl.Run(context.Background(), bad); err == nil {
			t.Error("不正なブリーフでエラーが返りませんでした")
		}
	})

	t.Run("コンポーネント欠落で初期化が失敗すること", func(t *testing.T) {
		if _, err := NewPipeline(nil, &stubProducer{}, stubAdapter{}, &stubComposer{}, 1); err == nil {
			t.Error("リゾルバー欠落でエラーが発生しませんでした")
		}
	})
}
