package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// copyPayload はモデルに要求する JSON の形です。
// cta は call_to_action の省略形として受理します。
type copyPayload struct {
	Headline     string `json:"headline"`
	Description  string `json:"description"`
	CallToAction string `json:"call_to_action"`
	CTA          string `json:"cta"`
}

// GeminiAdapter は Gemini によるロケール・商品適応コピー生成を行います。
type GeminiAdapter struct {
	client gemini.GenerativeModel
	model  string
}

// NewGeminiAdapter は GeminiAdapter を初期化します。
func NewGeminiAdapter(client gemini.GenerativeModel, model string) (*GeminiAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("messaging: Gemini クライアントは必須です")
	}
	if model == "" {
		return nil, fmt.Errorf("messaging: モデル名は必須です")
	}
	return &GeminiAdapter{client: client, model: model}, nil
}

// Adapt は商品とロケールに適応したコピーを生成します。
// モデルの応答が壊れている場合もブリーフのコピーへフォールバックし、
// エラーは API 呼び出しの失敗時のみ返します。
func (ga *GeminiAdapter) Adapt(ctx context.Context, brief *domain.CampaignBrief, product domain.Product) (domain.AdaptedMessaging, error) {
	prompt, err := buildCopyPrompt(brief, product)
	if err != nil {
		return domain.AdaptedMessaging{}, err
	}

	slog.InfoContext(ctx, "コピー適応を実行します",
		"product_id", product.Key(), "locale", brief.Locale, "model", ga.model)

	resp, err := ga.client.GenerateContent(ctx, prompt, ga.model)
	if err != nil {
		return domain.AdaptedMessaging{}, fmt.Errorf("messaging: 商品 '%s' のコピー適応に失敗しました: %w", product.Key(), err)
	}

	payload, err := parseCopyResponse(resp.Text)
	if err != nil {
		// JSON が取り出せない応答は想定内として扱い、ブリーフのコピーに戻します
		slog.WarnContext(ctx, "適応コピーの解析に失敗したためブリーフのコピーを使用します",
			"product_id", product.Key(), "error", err)
		return domain.FallbackMessaging(brief), nil
	}

	adapted := domain.FallbackMessaging(brief)
	adapted.Adapted = true
	if h := strings.TrimSpace(payload.Headline); h != "" {
		adapted.Headline = h
	}
	if d := strings.TrimSpace(payload.Description); d != "" {
		adapted.Subheading = d
	}
	cta := strings.TrimSpace(payload.CallToAction)
	if cta == "" {
		cta = strings.TrimSpace(payload.CTA)
	}
	if cta != "" {
		adapted.CallToAction = cta
	}
	return adapted, nil
}

// parseCopyResponse はモデル応答から JSON オブジェクトを抽出して解析します。
// コードフェンス、裸の JSON、文中の最外オブジェクトの順に試行します。
func parseCopyResponse(raw string) (copyPayload, error) {
	raw = strings.TrimSpace(raw)
	var rawJSON string

	matches := jsonBlockRegex.FindStringSubmatch(raw)
	if len(matches) > 1 {
		rawJSON = matches[1]
	} else {
		firstBracket := strings.Index(raw, "{")
		lastBracket := strings.LastIndex(raw, "}")
		if firstBracket != -1 && lastBracket > firstBracket {
			rawJSON = raw[firstBracket : lastBracket+1]
		} else {
			rawJSON = raw
		}
	}

	var payload copyPayload
	if err := json.Unmarshal([]byte(rawJSON), &payload); err != nil {
		return copyPayload{}, fmt.Errorf("応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), err)
	}
	return payload, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
