package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-creative-kit/pkg/domain"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Memo は任意の Adapter を (商品ID, ロケール) キーでメモ化するラッパーです。
// 同一キーへの並行初回アクセスでも外部呼び出しは最大1回に抑えられ、
// 他の呼び出し元は同じ計算結果を待って再利用します。
// スコープは1回の実行に限定されます（モジュールレベルの隠れた状態は持ちません）。
type Memo struct {
	inner Adapter
	store *cache.Cache
	group singleflight.Group
}

// NewMemo は Memo を初期化します。
// ストアは実行単位で生成するため、期限切れ掃除は行いません。
func NewMemo(inner Adapter) (*Memo, error) {
	if inner == nil {
		return nil, fmt.Errorf("messaging: ラップ対象の Adapter は必須です")
	}
	return &Memo{
		inner: inner,
		store: cache.New(cache.NoExpiration, 0),
	}, nil
}

// Key は (商品, ロケール) のメモ化キーを返します。
func Key(product domain.Product, locale string) string {
	return product.Key() + "|" + locale
}

// Adapt はキャッシュ済みの結果を返すか、内側の Adapter を1回だけ呼び出します。
// 内側の失敗はブリーフのコピーへのフォールバックとして吸収され、
// 実行エラーとしては伝播しません。
func (m *Memo) Adapt(ctx context.Context, brief *domain.CampaignBrief, product domain.Product) (domain.AdaptedMessaging, error) {
	key := Key(product, brief.Locale)

	if v, ok := m.store.Get(key); ok {
		return v.(domain.AdaptedMessaging), nil
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		// singleflight の待機中に別ゴルーチンが格納している可能性があるため再確認
		if v, ok := m.store.Get(key); ok {
			return v, nil
		}

		adapted, innerErr := m.inner.Adapt(ctx, brief, product)
		if innerErr != nil {
			slog.WarnContext(ctx, "コピー適応に失敗したためブリーフのコピーを使用します",
				"product_id", product.Key(), "locale", brief.Locale, "error", innerErr)
			adapted = domain.FallbackMessaging(brief)
		}

		m.store.Set(key, adapted, cache.NoExpiration)
		return adapted, nil
	})
	if err != nil {
		// ここに到達するのはクロージャがエラーを返した場合のみで、現状は起こりません
		return domain.FallbackMessaging(brief), nil
	}

	return v.(domain.AdaptedMessaging), nil
}
