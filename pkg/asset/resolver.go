// Package asset は入力アセットフォルダから商品画像を発見・再利用するためのロジックを提供します。
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// ErrNotFound は再利用可能なアセットが見つからなかったことを示します。
// これは想定内の分岐であり、障害ではありません。呼び出し側は errors.Is で判定し、
// 画像生成へフォールバックします。
var ErrNotFound = errors.New("asset: 再利用可能なアセットが見つかりません")

// rasterExtensions は探索対象とするラスタ画像の拡張子です。
var rasterExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

// Resolver は入力アセットディレクトリに対する探索を担当します。
// 副作用は持たず、同じ入力に対して常に同じ結果を返します。
type Resolver struct {
	root string
}

// NewResolver は指定されたアセットルートに対する Resolver を生成します。
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve は商品に対応する既存アセットを探索します。
//
// 探索順序:
//  1. 商品の asset_path（アセットルートからの相対パス）の完全一致
//  2. 商品 id/name のスラッグを含むファイル名ステムの大文字小文字を無視した一致
//
// 何も見つからない場合は ErrNotFound を返します。
func (r *Resolver) Resolve(product domain.Product) (domain.ResolvedAsset, error) {
	if r.root == "" {
		return domain.ResolvedAsset{}, ErrNotFound
	}
	if _, err := os.Stat(r.root); err != nil {
		// ルートが存在しない場合も「見つからない」として扱う
		return domain.ResolvedAsset{}, ErrNotFound
	}

	// 1. 明示的な asset_path を最優先
	if product.AssetPath != "" {
		candidate := filepath.Join(r.root, product.AssetPath)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return domain.ResolvedAsset{
				ProductID: product.Key(),
				Path:      candidate,
				Origin:    domain.OriginReused,
			}, nil
		}
	}

	slug := product.Slug()
	if slug == "" {
		return domain.ResolvedAsset{}, ErrNotFound
	}

	// 2. ファイル名ステムに対するスラッグ一致
	match, err := r.findBySlug(slug, domain.Slugify(product.Name))
	if err != nil {
		return domain.ResolvedAsset{}, fmt.Errorf("asset: ディレクトリ '%s' の走査に失敗しました: %w", r.root, err)
	}
	if match == "" {
		return domain.ResolvedAsset{}, ErrNotFound
	}

	return domain.ResolvedAsset{
		ProductID: product.Key(),
		Path:      match,
		Origin:    domain.OriginReused,
	}, nil
}

// findBySlug はアセットルートを再帰的に走査し、ステムがスラッグを含む
// 最初のラスタ画像を返します。走査順は WalkDir の辞書順に従うため決定的です。
func (r *Resolver) findBySlug(idSlug, nameSlug string) (string, error) {
	var match string
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || match != "" {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := rasterExtensions[ext]; !ok {
			return nil
		}

		stem := domain.Slugify(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
		if strings.Contains(stem, idSlug) || (nameSlug != "item" && strings.Contains(stem, nameSlug)) {
			match = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return match, nil
}
