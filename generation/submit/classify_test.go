package submit

import (
	"testing"
)

func TestIsInsufficientCreditsError(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Insufficient credits for this operation", true},
		{"insufficient credit balance", true},
		{"INSUFFICIENT CREDITS", true},
		{"Not enough credits to start generation", true},
		{"积分不足，请充值", true},
		{"错误：积分不足", true},
		{"Network timeout", false},
		{"internal server error", false},
		{"insufficient permissions", false}, // 没有 credit，不算
		{"credit card declined", false},     // 没有 insufficient，不算
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := IsInsufficientCreditsError(tt.message); got != tt.want {
				t.Errorf("IsInsufficientCreditsError(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}
