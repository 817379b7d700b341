package analytics

import (
	"fmt"
	"math"
	"time"
)

// WeekOfYear 以周一为一周开始的周序号，第一个周一之前为第 0 周。
// 不区分年份，跨年数据会落入同一个序号
func WeekOfYear(t time.Time) int {
	yday := t.YearDay() - 1
	weekday := (int(t.Weekday()) + 6) % 7
	return (yday + 7 - weekday) / 7
}

// FormatMinutes 分钟数转为 "h:mm"，先四舍五入到整分钟；非有限值返回空串
func FormatMinutes(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return ""
	}
	total := int(math.Round(minutes))
	sign := ""
	if total < 0 {
		sign, total = "-", -total
	}
	return fmt.Sprintf("%s%d:%02d", sign, total/60, total%60)
}
