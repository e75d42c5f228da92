package domain

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestRunReport(t *testing.T) {
	t.Run("並行追記でも全件が記録されること", func(t *testing.T) {
		rr := NewRunReport()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				rr.Add(ItemResult{ProductID: fmt.Sprintf("p%02d", n), Aspect: "1x1", Path: "x.png"})
			}(i)
		}
		wg.Wait()

		if rr.Len() != 50 {
			t.Errorf("記録件数が違います。期待: 50, 実際: %d", rr.Len())
		}
		if !rr.AllSucceeded() {
			t.Error("全件成功のはずが AllSucceeded が false です")
		}
	})

	t.Run("失敗ペアのみが FailedItems に現れること", func(t *testing.T) {
		rr := NewRunReport()
		rr.Add(ItemResult{ProductID: "a", Aspect: "1x1", Path: "a.png"})
		rr.Add(ItemResult{ProductID: "a", Aspect: "9x16", Err: "壊れた画像です"})
		rr.Add(ItemResult{ProductID: "b", Aspect: "1x1", Path: "b.png"})

		failed := rr.FailedItems()
		if len(failed) != 1 {
			t.Fatalf("失敗件数が違います: %d", len(failed))
		}
		if failed[0].ProductID != "a" || failed[0].Aspect != "9x16" {
			t.Errorf("失敗ペアが違います: %+v", failed[0])
		}
		if rr.AllSucceeded() {
			t.Error("失敗があるのに AllSucceeded が true です")
		}
	})

	t.Run("Items が安定した順序で返ること", func(t *testing.T) {
		rr := NewRunReport()
		rr.Add(ItemResult{ProductID: "b", Aspect: "1x1"})
		rr.Add(ItemResult{ProductID: "a", Aspect: "9x16"})
		rr.Add(ItemResult{ProductID: "a", Aspect: "16x9"})

		items := rr.Items()
		if items[0].ProductID != "a" || items[0].Aspect != "16x9" {
			t.Errorf("整列順が違います: %+v", items)
		}
		if items[2].ProductID != "b" {
			t.Errorf("整列順が違います: %+v", items)
		}
	})

	t.Run("Summary に失敗ペアが列挙されること", func(t *testing.T) {
		rr := NewRunReport()
		rr.Add(ItemResult{ProductID: "a", Aspect: "1x1", Path: "a.png"})
		rr.Add(ItemResult{ProductID: "b", Aspect: "16x9", Err: "フォントが読めません"})

		summary := rr.Summary()
		if !strings.Contains(summary, "b/16x9") || !strings.Contains(summary, "フォントが読めません") {
			t.Errorf("サマリに失敗ペアの詳細が含まれていません: %s", summary)
		}
	})
}
