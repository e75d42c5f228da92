package compose

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	t.Run("正常な色指定を解析できること", func(t *testing.T) {
		cases := []struct {
			input    string
			expected color.NRGBA
		}{
			{"#F97316", color.NRGBA{R: 0xF9, G: 0x73, B: 0x16, A: 255}},
			{"f97316", color.NRGBA{R: 0xF9, G: 0x73, B: 0x16, A: 255}},
			{"  #111827 ", color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 255}},
			{"#FFFFFF", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
			{"#000000", color.NRGBA{A: 255}},
		}

		for _, c := range cases {
			got, err := ParseHexColor(c.input)
			if err != nil {
				t.Errorf("ParseHexColor(%q) がエラーを返しました: %v", c.input, err)
				continue
			}
			if got != c.expected {
				t.Errorf("ParseHexColor(%q): 期待値 %+v, 実際の値 %+v", c.input, c.expected, got)
			}
		}
	})

	t.Run("不正な色指定はエラーになること", func(t *testing.T) {
		for _, input := range []string{"", "#FFF", "#GGGGGG", "not-a-color", "#F973160"} {
			if _, err := ParseHexColor(input); err == nil {
				t.Errorf("ParseHexColor(%q) がエラーを返しませんでした", input)
			}
		}
	})
}
