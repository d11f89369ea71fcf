package insight

import (
	"fmt"
	"strings"

	"github.com/julianstephens/blossom/internal/countdown"
)

// BuildPrompt returns the Traditional Chinese request for a quote, its author
// and a spring observation, mentioning the target date and days left.
func BuildPrompt(target countdown.Target, daysLeft int) string {
	if daysLeft < 0 {
		daysLeft = 0
	}

	var b strings.Builder
	b.WriteString("你是一位浪漫且富有詩意的文學家。")
	fmt.Fprintf(&b, "請為正在倒數 %d月%d日（春天的一個重要日子）的人提供一段鼓勵。", int(target.Month), target.Day)
	fmt.Fprintf(&b, "目前距離還有 %d 天。", daysLeft)
	b.WriteString("請提供：")
	b.WriteString("1. 一句關於春天、等待或希望的名言（可以是創作的）。")
	b.WriteString("2. 作者名。")
	fmt.Fprintf(&b, "3. 一個關於 %d月或春天的有趣冷知識或感性的觀察。", int(target.Month))
	b.WriteString("請以繁體中文回答。")
	return b.String()
}
