package processor

import (
	"math"
	"time"
)

// Deriver 计算送达时间、取货用时与速度
type Deriver struct{}

func (Deriver) Name() string { return "derive" }

func (Deriver) Process(b *Batch) error {
	for _, r := range b.Rows {
		taken := r.TakenMinutes.Int64
		r.Delivered = r.Picked.Time.Add(time.Duration(taken) * time.Minute)
		r.PickMinutes = int(math.Floor(r.Picked.Time.Sub(r.Ordered.Time).Seconds() / 60))

		// 用时为 0 时结果为 Inf 或 NaN，交给使用方过滤
		r.VelocityKmh = r.DistanceKm / (float64(taken) / 60)
		if math.IsNaN(r.VelocityKmh) || math.IsInf(r.VelocityKmh, 0) {
			b.Stats.NonFinite++
		}
	}
	return nil
}
