package feed

import (
	"testing"
)

func TestContentKey_BracketedHeadlineWithDateline(t *testing.T) {
	body := "17:24:17【2月个人住房新发放贷款加权平均利率约3.1% 比上年同期下降约70个基点】财联社3月14日电，央行数据显示"

	if got := ContentKey(body); got != "央行数据显示" {
		t.Errorf("Expected key %q, got %q", "央行数据显示", got)
	}
}

func TestContentKey_BareDateline(t *testing.T) {
	body := "17:11:48财联社3月14日电，欧盟外交人士称，欧盟特使同意延长对俄罗斯2400多名个人和实体的制裁。"
	expected := "欧盟外交人士称，欧盟特使同意延长对俄罗斯2400多名个人和实体的制裁。"

	if got := ContentKey(body); got != expected {
		t.Errorf("Expected key %q, got %q", expected, got)
	}
}

func TestContentKey_InlineBracketPair(t *testing.T) {
	if got := ContentKey("今日【重要消息】某股票大涨"); got != "某股票大涨" {
		t.Errorf("Expected key %q, got %q", "某股票大涨", got)
	}
}

func TestContentKey_InlineBracketPairNothingAfter(t *testing.T) {
	// Nothing follows the closing bracket, so the bracketed span itself is
	// the key.
	if got := ContentKey("今日速递【重要消息请注意】"); got != "重要消息请注意" {
		t.Errorf("Expected key %q, got %q", "重要消息请注意", got)
	}
}

func TestContentKey_PlainText(t *testing.T) {
	if got := ContentKey("某公司发布年度财报 净利润同比增长"); got != "某公司发布年度财报净利润同比增长" {
		t.Errorf("Expected whitespace-stripped passthrough, got %q", got)
	}
}

func TestContentKey_TimePrefixOnly(t *testing.T) {
	if got := ContentKey("17:24某公司发布年度财报"); got != "某公司发布年度财报" {
		t.Errorf("Expected time prefix stripped, got %q", got)
	}
}

func TestContentKey_Empty(t *testing.T) {
	if got := ContentKey(""); got != "" {
		t.Errorf("Expected empty key for empty body, got %q", got)
	}
}

func TestKeyPrefix(t *testing.T) {
	key := "欧盟外交人士称，欧盟特使同意延长制裁"

	if got := keyPrefix(key, 5); got != "欧盟外交人" {
		t.Errorf("Expected rune-based prefix, got %q", got)
	}
	if got := keyPrefix("短", 15); got != "短" {
		t.Errorf("Expected short key returned whole, got %q", got)
	}
}
