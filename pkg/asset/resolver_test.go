package asset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("ディレクトリ作成に失敗しました: %v", err)
	}
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("ファイル作成に失敗しました: %v", err)
	}
}

func TestResolverResolve(t *testing.T) {
	t.Run("asset_path の完全一致が最優先されること", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "explicit.png"))
		// スラッグ一致でも見つかるファイルを別に置き、優先順位を確認する
		touch(t, filepath.Join(root, "a-trail-runner-shoe-studio.png"))

		r := NewResolver(root)
		asset, err := r.Resolve(domain.Product{
			ID:        "trail-runner-shoe",
			Name:      "Trail Runner Shoe",
			AssetPath: "explicit.png",
		})
		if err != nil {
			t.Fatalf("解決に失敗しました: %v", err)
		}
		if asset.Path != filepath.Join(root, "explicit.png") {
			t.Errorf("asset_path が優先されていません: %s", asset.Path)
		}
		if asset.Origin != domain.OriginReused {
			t.Errorf("origin が違います: %s", asset.Origin)
		}
	})

	t.Run("存在しない asset_path はスラッグ一致にフォールバックすること", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "sub", "Trail_Runner_Shoe_01.JPG"))

		r := NewResolver(root)
		asset, err := r.Resolve(domain.Product{
			ID:        "trail-runner-shoe",
			Name:      "Trail Runner Shoe",
			AssetPath: "missing.png",
		})
		if err != nil {
			t.Fatalf("解決に失敗しました: %v", err)
		}
		if filepath.Base(asset.Path) != "Trail_Runner_Shoe_01.JPG" {
			t.Errorf("スラッグ一致の結果が違います: %s", asset.Path)
		}
	})

	t.Run("ラスタ以外の拡張子は無視されること", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "trail-runner-shoe.txt"))

		r := NewResolver(root)
		_, err := r.Resolve(domain.Product{ID: "trail-runner-shoe"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ErrNotFound を期待しましたが: %v", err)
		}
	})

	t.Run("一致なしで ErrNotFound が返ること", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "other-product.png"))

		r := NewResolver(root)
		_, err := r.Resolve(domain.Product{ID: "trail-runner-shoe"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ErrNotFound を期待しましたが: %v", err)
		}
	})

	t.Run("ルートが存在しない場合も ErrNotFound になること", func(t *testing.T) {
		r := NewResolver(filepath.Join(t.TempDir(), "no-such-dir"))
		_, err := r.Resolve(domain.Product{ID: "p1"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ErrNotFound を期待しましたが: %v", err)
		}
	})
}
