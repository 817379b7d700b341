package analytics

import (
	"DeliveryInsights/src/model"
	"DeliveryInsights/src/utils"
)

// DefaultBounds IQR 的倍数，越小越敏感
const DefaultBounds = 1.5

// numericFields 参与离群检测的数值列；第二个返回值为 false 表示该行此列为空
var numericFields = []func(model.Order) (float64, bool){
	func(o model.Order) (float64, bool) { return float64(o.Age), true },
	rating,
	pickMinutes,
	func(o model.Order) (float64, bool) { return float64(o.TakenMinutes), true },
	func(o model.Order) (float64, bool) {
		return float64(o.VehicleCondition.Int64), o.VehicleCondition.Valid
	},
	func(o model.Order) (float64, bool) { return o.Restaurant.Lat, true },
	func(o model.Order) (float64, bool) { return o.Restaurant.Lon, true },
	func(o model.Order) (float64, bool) { return o.Destination.Lat, true },
	func(o model.Order) (float64, bool) { return o.Destination.Lon, true },
	func(o model.Order) (float64, bool) { return o.DistanceKm, true },
	func(o model.Order) (float64, bool) { return o.VelocityKmh, true },
}

// Outliers 任一数值列落在 [Q1-bounds*IQR, Q3+bounds*IQR] 之外的订单，保持原顺序。
// 分位数只用有限值计算；Inf 视为离群，NaN 不视为离群
func Outliers(orders []model.Order, bounds float64) []model.Order {
	flagged := make([]bool, len(orders))
	for _, field := range numericFields {
		var values []float64
		for _, o := range orders {
			if v, ok := field(o); ok && finite(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		q1 := utils.Quantile(values, 0.25)
		q3 := utils.Quantile(values, 0.75)
		iqr := q3 - q1
		lower, upper := q1-bounds*iqr, q3+bounds*iqr

		for i, o := range orders {
			if v, ok := field(o); ok && (v < lower || v > upper) {
				flagged[i] = true
			}
		}
	}

	var out []model.Order
	for i, o := range orders {
		if flagged[i] {
			out = append(out, o)
		}
	}
	return out
}
