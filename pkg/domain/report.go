package domain

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ItemResult は (商品, アスペクト比) 1ペアの処理結果です。
type ItemResult struct {
	ProductID string
	Aspect    string
	Origin    AssetOrigin
	Path      string // 成功時の成果物パス
	Err       string // 失敗時の理由。空文字列なら成功
}

// Succeeded はこのペアが成功したかどうかを返します。
func (r ItemResult) Succeeded() bool {
	return r.Err == ""
}

// RunReport は1回の実行における全ペアの結果を集約します。
// 並列実行中の追記を想定しており、Add は複数ゴルーチンから安全に呼べます。
type RunReport struct {
	mu    sync.Mutex
	items []ItemResult
}

// NewRunReport は空のレポートを生成します。
func NewRunReport() *RunReport {
	return &RunReport{}
}

// Add は1ペアの結果を追記します。
func (rr *RunReport) Add(item ItemResult) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.items = append(rr.items, item)
}

// Items は商品ID・アスペクト比順に整列した結果のコピーを返します。
// 並列実行では追記順が不定になるため、読み出し側で順序を保証します。
func (rr *RunReport) Items() []ItemResult {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	items := make([]ItemResult, len(rr.items))
	copy(items, rr.items)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].Aspect < items[j].Aspect
	})
	return items
}

// FailedItems は失敗したペアのみを返します。
func (rr *RunReport) FailedItems() []ItemResult {
	var failed []ItemResult
	for _, item := range rr.Items() {
		if !item.Succeeded() {
			failed = append(failed, item)
		}
	}
	return failed
}

// AllSucceeded は全ペアが成功した場合のみ true を返します。
func (rr *RunReport) AllSucceeded() bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	for _, item := range rr.items {
		if !item.Succeeded() {
			return false
		}
	}
	return true
}

// Len は記録済みペア数を返します。
func (rr *RunReport) Len() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return len(rr.items)
}

// Summary は失敗ペアを列挙した人間可読のサマリを返します。
// 部分失敗を1つの不透明なエラーに潰さないための出力です。
func (rr *RunReport) Summary() string {
	items := rr.Items()
	failed := 0
	var sb strings.Builder
	for _, item := range items {
		if item.Succeeded() {
			continue
		}
		failed++
		sb.WriteString(fmt.Sprintf("  - %s/%s: %s\n", item.ProductID, item.Aspect, item.Err))
	}

	if failed == 0 {
		return fmt.Sprintf("全 %d ペアの生成に成功しました", len(items))
	}
	return fmt.Sprintf("%d/%d ペアが失敗しました:\n%s", failed, len(items), strings.TrimRight(sb.String(), "\n"))
}
