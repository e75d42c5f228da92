package domain

import "strings"

// isSafeID は識別子がパス区切りや空白を含まず、そのまま
// ディレクトリ名に使えるかを判定します。campaign_id はスラッグ化せず
// 原文のまま出力パスに使うため、ここで安全性だけを確認します。
func isSafeID(id string) bool {
	if id == "" {
		return false
	}
	for _, ch := range id {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_':
		default:
			return false
		}
	}
	return true
}

// Slugify はテキストをファイルシステムで安全な識別子に変換します。
// 英数字以外はハイフンに置換し、連続ハイフンを畳み込みます。
// 空になった場合は "item" を返します。
func Slugify(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, ch := range strings.ToLower(text) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			sb.WriteRune(ch)
		} else {
			sb.WriteByte('-')
		}
	}

	slug := sb.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "item"
	}
	return slug
}
