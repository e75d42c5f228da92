package domain

// AssetOrigin は素材画像の入手経路を表します。
type AssetOrigin string

const (
	// OriginReused は入力アセットフォルダ内の既存画像を再利用したことを示します。
	OriginReused AssetOrigin = "reused"
	// OriginGenerated はリモートの画像生成バックエンドで新規生成したことを示します。
	OriginGenerated AssetOrigin = "generated"
	// OriginMock はローカルの決定論的モックで生成したことを示します。
	// リモート生成の失敗によるフォールバックもこのタグになります。
	OriginMock AssetOrigin = "mock"
)

// ResolvedAsset は1商品につき1回解決される素材画像です。
// 実行をまたいで保持されるのは書き出されたファイルのみです。
type ResolvedAsset struct {
	ProductID string
	Path      string
	Origin    AssetOrigin
}

// AdaptedMessaging は (商品, ロケール) ごとに適応されたコピーです。
// 生成後は不変で、同一商品の全アスペクト比で再利用されます。
type AdaptedMessaging struct {
	Headline     string
	Subheading   string
	CallToAction string

	// Adapted は言語適応バックエンドによる生成かどうかを示します。
	// false の場合はブリーフのコピーがそのまま使われています。
	Adapted bool
}

// FallbackMessaging はブリーフのコピーを無加工で返します。
// 適応バックエンドが無い・失敗した場合の必須フォールバックです。
func FallbackMessaging(brief *CampaignBrief) AdaptedMessaging {
	return AdaptedMessaging{
		Headline:     brief.Messaging.Headline,
		Subheading:   brief.Messaging.SubheadingText(),
		CallToAction: brief.Messaging.CallToAction,
		Adapted:      false,
	}
}
