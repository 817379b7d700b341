package processor

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"DeliveryInsights/src/model"
	"DeliveryInsights/src/utils"

	"gonum.org/v1/gonum/stat"
)

// Imputer 按固定顺序填补缺失值，后面的步骤依赖前面的结果。
// 每个统计量都在整列上先算好再逐行应用
type Imputer struct{}

func (Imputer) Name() string { return "impute" }

func (Imputer) Process(b *Batch) error {
	fillAge(b)
	fillRating(b)
	fillDate(b)
	fillTaken(b)

	gap := newPickGap(b.Rows)
	fillPicked(b, gap)
	fillClocks(b)
	fillOrdered(b, gap)
	fillIdentifiers(b)
	return nil
}

// fillAge 全表年龄中位数(取整)
func fillAge(b *Batch) {
	var ages []float64
	for _, r := range b.Rows {
		if r.Age.Valid {
			ages = append(ages, float64(r.Age.Int64))
		}
	}
	median := utils.Median(ages)
	if math.IsNaN(median) {
		return
	}
	for _, r := range b.Rows {
		if !r.Age.Valid {
			r.Age = sql.NullInt64{Int64: int64(math.Round(median)), Valid: true}
			b.Stats.imputed(model.ColAge)
		}
	}
}

// fillRating 同一配送员的平均评分；该配送员没有其他评分时保持为空
func fillRating(b *Batch) {
	byService := make(map[string][]float64)
	for _, r := range b.Rows {
		if r.Rating.Valid && r.ServiceID != "" {
			byService[r.ServiceID] = append(byService[r.ServiceID], r.Rating.Float64)
		}
	}
	means := make(map[string]float64, len(byService))
	for id, ratings := range byService {
		means[id] = stat.Mean(ratings, nil)
	}

	for _, r := range b.Rows {
		if r.Rating.Valid {
			continue
		}
		if mean, ok := means[r.ServiceID]; ok {
			r.Rating = sql.NullFloat64{Float64: mean, Valid: true}
			b.Stats.imputed(model.ColRating)
		}
	}
}

// fillDate 缺失日期取全表日期中位数，然后重新组合时间
func fillDate(b *Batch) {
	var days []float64
	for _, r := range b.Rows {
		if r.Date.Valid {
			days = append(days, float64(r.Date.Time.Unix()/86400))
		}
	}
	median := utils.Median(days)
	if math.IsNaN(median) {
		median = 0
	}
	date := time.Unix(int64(math.Floor(median))*86400, 0).UTC()

	for _, r := range b.Rows {
		if r.Date.Valid {
			continue
		}
		r.Date = sql.NullTime{Time: date, Valid: true}
		b.Stats.imputed(model.ColOrderDate)
		if resolveTimes(r) {
			b.Stats.Rollovers++
		}
	}
}

// fillTaken 同类订单的用时中位数，没有同类数据时用全表中位数
func fillTaken(b *Batch) {
	byType := make(map[string][]float64)
	var all []float64
	for _, r := range b.Rows {
		if r.TakenMinutes.Valid {
			v := float64(r.TakenMinutes.Int64)
			byType[r.OrderType] = append(byType[r.OrderType], v)
			all = append(all, v)
		}
	}
	global := utils.Median(all)
	if math.IsNaN(global) {
		global = 0
	}

	for _, r := range b.Rows {
		if r.TakenMinutes.Valid {
			continue
		}
		median := global
		if values, ok := byType[r.OrderType]; ok {
			median = utils.Median(values)
		}
		r.TakenMinutes = sql.NullInt64{Int64: int64(math.Round(median)), Valid: true}
		b.Stats.imputed(model.ColTakenMinutes)
	}
}

// pickGap 回填用的下单到取货间隔。先按订单类型求中位数，再取排序后第一个类型的值，
// 整表所有行共用这一个值；没有任何类型有完整时间时退回全表中位数
type pickGap time.Duration

func newPickGap(rows []*Row) pickGap {
	grouped := make(map[string][]float64)
	var all []float64
	for _, r := range rows {
		if !r.Ordered.Valid || !r.Picked.Valid {
			continue
		}
		gap := r.Picked.Time.Sub(r.Ordered.Time).Minutes()
		all = append(all, gap)
		if r.OrderType != model.Unknown {
			grouped[r.OrderType] = append(grouped[r.OrderType], gap)
		}
	}

	types := make([]string, 0, len(grouped))
	for orderType := range grouped {
		types = append(types, orderType)
	}
	sort.Strings(types)

	minutes := utils.Median(all)
	if len(types) > 0 {
		minutes = utils.Median(grouped[types[0]])
	}
	if math.IsNaN(minutes) || minutes < 0 {
		minutes = 0
	}
	return pickGap(time.Duration(math.Round(minutes*60)) * time.Second)
}

// fillPicked 有下单时间、缺取货时间
func fillPicked(b *Batch, gap pickGap) {
	for _, r := range b.Rows {
		if r.Ordered.Valid && !r.Picked.Valid {
			r.Picked = sql.NullTime{Time: r.Ordered.Time.Add(time.Duration(gap)), Valid: true}
			b.Stats.imputed(model.ColPicked)
		}
	}
}

// fillClocks 两个时刻都缺失时，取货时刻取全表中位数，下单时间随后回推
func fillClocks(b *Batch) {
	var clocks []float64
	for _, r := range b.Rows {
		if r.PickedClock.Valid {
			clocks = append(clocks, r.PickedClock.Duration.Seconds())
		}
	}
	median := utils.Median(clocks)
	if math.IsNaN(median) {
		median = 0
	}
	clock := time.Duration(math.Round(median)) * time.Second

	for _, r := range b.Rows {
		if !r.Ordered.Valid && !r.Picked.Valid {
			r.Picked = sql.NullTime{Time: r.Date.Time.Add(clock), Valid: true}
			b.Stats.imputed(model.ColPicked)
		}
	}
}

// fillOrdered 取货时间减去回填间隔，结果只是近似值
func fillOrdered(b *Batch, gap pickGap) {
	for _, r := range b.Rows {
		if r.Ordered.Valid {
			continue
		}
		r.Ordered = sql.NullTime{Time: r.Picked.Time.Add(-time.Duration(gap)), Valid: true}
		r.OrderedImputed = true
		b.Stats.imputed(model.ColOrdered)
	}
}

func fillIdentifiers(b *Batch) {
	for _, r := range b.Rows {
		if r.ID == "" {
			r.ID = model.Unknown
			b.Stats.imputed(model.ColID)
		}
		if r.ServiceID == "" {
			r.ServiceID = model.Unknown
			b.Stats.imputed(model.ColServiceID)
		}
	}
}
