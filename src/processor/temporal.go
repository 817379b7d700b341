package processor

import (
	"database/sql"
)

// TemporalResolver 把日期与时刻组合为绝对时间
type TemporalResolver struct{}

func (TemporalResolver) Name() string { return "temporal" }

func (TemporalResolver) Process(b *Batch) error {
	for _, r := range b.Rows {
		if resolveTimes(r) {
			b.Stats.Rollovers++
		}
	}
	return nil
}

// resolveTimes 组合下单与取货时间；取货时刻早于下单时刻说明已过零点，顺延一天。
// 返回是否发生了顺延
func resolveTimes(r *Row) bool {
	if !r.Date.Valid {
		return false
	}
	if r.OrderedClock.Valid && !r.Ordered.Valid {
		r.Ordered = sql.NullTime{Time: r.Date.Time.Add(r.OrderedClock.Duration), Valid: true}
	}
	if r.PickedClock.Valid && !r.Picked.Valid {
		r.Picked = sql.NullTime{Time: r.Date.Time.Add(r.PickedClock.Duration), Valid: true}
		if r.Ordered.Valid && r.Picked.Time.Before(r.Ordered.Time) {
			r.Picked.Time = r.Picked.Time.AddDate(0, 0, 1)
			return true
		}
	}
	return false
}
