// Package messaging は、ブリーフのキャンペーンコピーを商品・ロケールに合わせて
// 適応させる Messaging Adapter を提供します。適応バックエンドが無い、
// あるいは失敗した場合でも、ブリーフのコピーをそのまま返すフォールバックにより
// パイプラインを停止させません。
package messaging

import (
	"context"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// Adapter は言語適応能力の契約です。
// ロケールはブリーフから取得します。
type Adapter interface {
	Adapt(ctx context.Context, brief *domain.CampaignBrief, product domain.Product) (domain.AdaptedMessaging, error)
}

// FallbackAdapter はすべての商品に対してブリーフのコピーを無加工で返します。
// バックエンド未設定時の決定論的なデフォルトです。
type FallbackAdapter struct{}

// NewFallbackAdapter は FallbackAdapter を生成します。
func NewFallbackAdapter() *FallbackAdapter {
	return &FallbackAdapter{}
}

// Adapt はブリーフのメッセージをそのまま返します。失敗しません。
func (*FallbackAdapter) Adapt(_ context.Context, brief *domain.CampaignBrief, _ domain.Product) (domain.AdaptedMessaging, error) {
	return domain.FallbackMessaging(brief), nil
}
