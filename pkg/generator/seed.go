package generator

import (
	"crypto/sha256"
	"encoding/binary"
)

// SeedFromProductID は商品IDから決定論的なシード値を生成します。
// 疑似乱数のすべてをこのシードから導出することで、グローバルな乱数状態が
// 商品間・実行間に漏れないようにします。
func SeedFromProductID(id string) int64 {
	hash := sha256.Sum256([]byte(id))
	seed := int64(binary.BigEndian.Uint64(hash[:8]))
	// 生成バックエンドのシード値は正の数が望ましいため符号を落とします
	if seed < 0 {
		seed = -seed
	}
	return seed
}
