package analytics

import (
	"fmt"
	"math"
	"time"

	"DeliveryInsights/src/config"
	"DeliveryInsights/src/model"
	"DeliveryInsights/src/utils"
)

// DateLayout 筛选日期的输入格式
const DateLayout = "02-01-2006"

// Range 闭区间
type Range struct {
	Min, Max float64
}

func (r *Range) contains(v float64) bool {
	return r == nil || (v >= r.Min && v <= r.Max)
}

// Filter 看板侧边栏的筛选条件。零值表示不筛选：
// 日期为零值时该端不设限，区间为 nil 时不设限，分类集合为空时不设限
type Filter struct {
	From, To   time.Time
	Ages       *Range
	Ratings    *Range // 设置后评分为空的订单被排除
	Traffic    []string
	Cities     []string
	OrderTypes []string
	Festivals  []string
}

// FilterFromConfig 把配置中的筛选条件转为 Filter
func FilterFromConfig(rf config.ReportFilter) (Filter, error) {
	f := Filter{
		Traffic:    rf.Traffic,
		Cities:     rf.Cities,
		OrderTypes: rf.OrderTypes,
		Festivals:  rf.Festivals,
	}

	var err error
	if rf.From != "" {
		if f.From, err = time.Parse(DateLayout, rf.From); err != nil {
			return f, fmt.Errorf("report_filter.from: %w", err)
		}
	}
	if rf.To != "" {
		if f.To, err = time.Parse(DateLayout, rf.To); err != nil {
			return f, fmt.Errorf("report_filter.to: %w", err)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, fmt.Errorf("report_filter: to %s 早于 from %s", rf.To, rf.From)
	}

	f.Ages = bounds(rf.MinAge, rf.MaxAge)
	f.Ratings = bounds(rf.MinRating, rf.MaxRating)
	return f, nil
}

func bounds(lo, hi *float64) *Range {
	if lo == nil && hi == nil {
		return nil
	}
	r := &Range{Min: math.Inf(-1), Max: math.Inf(1)}
	if lo != nil {
		r.Min = *lo
	}
	if hi != nil {
		r.Max = *hi
	}
	return r
}

// Apply 返回满足条件的订单，不修改入参
func (f Filter) Apply(orders []model.Order) []model.Order {
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if f.match(o) {
			out = append(out, o)
		}
	}
	return out
}

func (f Filter) match(o model.Order) bool {
	day := dayOf(o.Ordered)
	if !f.From.IsZero() && day.Before(dayOf(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(dayOf(f.To)) {
		return false
	}
	if !f.Ages.contains(float64(o.Age)) {
		return false
	}
	if f.Ratings != nil && (!o.Rating.Valid || !f.Ratings.contains(o.Rating.Float64)) {
		return false
	}
	return facet(f.Traffic, o.Traffic) && facet(f.Cities, o.City) &&
		facet(f.OrderTypes, o.OrderType) && facet(f.Festivals, o.Festival)
}

func facet(selected []string, v string) bool {
	return len(selected) == 0 || utils.Contains(selected, v)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
