package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// Producer は、アセットリゾルバーが NotFound を返した商品に対して
// 使用可能な画像を必ず用意します。リモートバックエンドの失敗は
// ローカルモックへのフォールバックで吸収され、実行を中断させません。
type Producer struct {
	remote   Backend // nil の場合はモックのみで動作します
	mock     Backend
	prompts  *PromptBuilder
	cacheDir string
}

// NewProducer は Producer を初期化します。
// cacheDir は生成画像を商品スラッグをキーに永続化するディレクトリです。
func NewProducer(remote Backend, mock Backend, prompts *PromptBuilder, cacheDir string) (*Producer, error) {
	if mock == nil {
		return nil, fmt.Errorf("generator: モックバックエンドは必須です")
	}
	if prompts == nil {
		return nil, fmt.Errorf("generator: PromptBuilder は必須です")
	}
	if cacheDir == "" {
		return nil, fmt.Errorf("generator: 生成アセットのキャッシュディレクトリは必須です")
	}
	return &Producer{
		remote:   remote,
		mock:     mock,
		prompts:  prompts,
		cacheDir: cacheDir,
	}, nil
}

// Produce は商品画像を生成し、キャッシュディレクトリに書き出して
// ResolvedAsset を返します。origin タグによってリモート生成と
// モックフォールバックを区別します。
func (p *Producer) Produce(ctx context.Context, brief *domain.CampaignBrief, product domain.Product) (domain.ResolvedAsset, error) {
	prompt, err := p.prompts.Build(brief, product)
	if err != nil {
		return domain.ResolvedAsset{}, err
	}

	req := Request{ProductID: product.Key(), Prompt: prompt}
	origin := domain.OriginMock

	var data []byte
	if p.remote != nil {
		// 過去の実行で永続化した生成画像があれば、リモート呼び出しを省いて再利用します
		if cached, ok := p.cachedPath(product); ok {
			slog.InfoContext(ctx, "生成済みキャッシュを再利用します",
				"product_id", product.Key(), "path", cached)
			return domain.ResolvedAsset{
				ProductID: product.Key(),
				Path:      cached,
				Origin:    domain.OriginGenerated,
			}, nil
		}

		data, err = p.remote.Generate(ctx, req)
		if err != nil {
			// リモートの失敗は回復可能なエラーとして扱い、モックに切り替えます。
			// 本物の結果と区別するため origin は mock のままにします。
			slog.WarnContext(ctx, "リモート生成に失敗したためモックにフォールバックします",
				"product_id", product.Key(), "error", err)
			data = nil
		} else {
			origin = domain.OriginGenerated
		}
	}

	if data == nil {
		data, err = p.mock.Generate(ctx, req)
		if err != nil {
			return domain.ResolvedAsset{}, fmt.Errorf("generator: 商品 '%s' のモック生成に失敗しました: %w", product.Key(), err)
		}
	}

	path, err := p.persist(product, data)
	if err != nil {
		return domain.ResolvedAsset{}, err
	}

	slog.InfoContext(ctx, "商品画像を生成しました",
		"product_id", product.Key(), "origin", string(origin), "path", path)

	return domain.ResolvedAsset{
		ProductID: product.Key(),
		Path:      path,
		Origin:    origin,
	}, nil
}

// cachedPath は商品スラッグをキーとする永続化済み生成画像のパスを返します。
func (p *Producer) cachedPath(product domain.Product) (string, bool) {
	path := filepath.Join(p.cacheDir, product.Slug()+".png")
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// persist は生成画像を商品スラッグをキーとして保存します。
// 同じ商品での再実行は同じパスを上書きします。
func (p *Producer) persist(product domain.Product, data []byte) (string, error) {
	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("generator: キャッシュディレクトリ '%s' の作成に失敗しました: %w", p.cacheDir, err)
	}

	path := filepath.Join(p.cacheDir, product.Slug()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("generator: 生成画像の保存に失敗しました (path: %s): %w", path, err)
	}
	return path, nil
}
