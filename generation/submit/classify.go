package submit

import (
	"strings"
)

// 积分不足的判定模式。上游的报错文案并不统一（英文、中文、拼接文案
// 都见过），集中在这一个谓词里维护，别在控制流里散落字符串匹配。
// 命中即走充值引导，漏判只会退化成普通失败提示。
var insufficientCreditPhrases = []string{
	"not enough credit",
	"积分不足",
}

// IsInsufficientCreditsError 判断上游错误文案是否为积分不足。
// 大小写不敏感："insufficient" 与 "credit" 同时出现，或命中枚举短语。
func IsInsufficientCreditsError(message string) bool {
	if message == "" {
		return false
	}
	lower := strings.ToLower(message)
	if strings.Contains(lower, "insufficient") && strings.Contains(lower, "credit") {
		return true
	}
	for _, phrase := range insufficientCreditPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
