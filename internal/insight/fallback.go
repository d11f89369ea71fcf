package insight

import "github.com/julianstephens/blossom/internal/models"

// Fallback returns the fixed insight shown whenever a fetch fails.
// It is never written to the cache.
func Fallback() models.InsightRecord {
	return models.InsightRecord{
		Quote:  "林花謝了春紅，太匆匆。但四月的約定，始終在枝頭等待綻放。",
		Author: "春之詩人",
		Fact:   "在古羅馬曆法中，四月 (April) 的名字來自於拉丁語 'aperire'，意為『打開』，象徵著花蕾即將盛開。",
	}
}
