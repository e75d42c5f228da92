// Package generator は、入力アセットが見つからなかった商品に対して
// 画像を用意する Image Producer を提供します。リモート生成とローカルモックの
// 2つの交換可能なバックエンドを1つのインターフェースの背後に置き、
// 選択は設定時に行います（パイプライン内の条件分岐にはしません）。
package generator

import "context"

// Request は1商品分の画像生成要求です。
// ProductID は決定論的なシード導出に、Prompt は描画内容の指示に使われます。
type Request struct {
	ProductID string
	Prompt    string
}

// Backend は画像生成能力の契約です。
// 成功時は PNG 等のラスタ画像バイト列を返します。
type Backend interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}
