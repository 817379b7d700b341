package processor

import (
	"database/sql"
	"time"

	"DeliveryInsights/src/model"
)

// NullDuration 一天内的时刻(距零点的时长)，可为空
type NullDuration struct {
	Duration time.Duration
	Valid    bool
}

// Row 清洗过程中的一行，字段在各阶段逐步补全
type Row struct {
	ID        string
	ServiceID string
	Age       sql.NullInt64
	Rating    sql.NullFloat64

	RestaurantLat sql.NullFloat64
	RestaurantLon sql.NullFloat64
	DeliveryLat   sql.NullFloat64
	DeliveryLon   sql.NullFloat64

	Date         sql.NullTime // 只有日期部分
	OrderedClock NullDuration
	PickedClock  NullDuration
	TakenMinutes sql.NullInt64

	MultipleDeliveries sql.NullInt64
	VehicleCondition   sql.NullInt64

	Weather     string
	Traffic     string
	OrderType   string
	VehicleType string
	Festival    string
	City        string

	// 以下由后续阶段生成
	Ordered        sql.NullTime
	OrderedImputed bool
	Picked         sql.NullTime
	Delivered      time.Time
	PickMinutes    int
	Restaurant     model.Location
	Destination    model.Location
	DistanceKm     float64
	VelocityKmh    float64
}

// Missing 缺失的非分类字段个数；分类字段的缺失已归入 Unknown，不计数
func (r *Row) Missing() int {
	n := 0
	for _, missing := range []bool{
		r.ID == "",
		r.ServiceID == "",
		!r.Age.Valid,
		!r.Rating.Valid,
		!r.RestaurantLat.Valid,
		!r.RestaurantLon.Valid,
		!r.DeliveryLat.Valid,
		!r.DeliveryLon.Valid,
		!r.Date.Valid,
		!r.OrderedClock.Valid,
		!r.PickedClock.Valid,
		!r.TakenMinutes.Valid,
		!r.MultipleDeliveries.Valid,
		!r.VehicleCondition.Valid,
	} {
		if missing {
			n++
		}
	}
	return n
}

// Order 转为清洗后的订单
func (r *Row) Order() model.Order {
	return model.Order{
		ID:               r.ID,
		ServiceID:        r.ServiceID,
		Age:              int(r.Age.Int64),
		Rating:           r.Rating,
		OrderType:        r.OrderType,
		Ordered:          r.Ordered.Time,
		OrderedImputed:   r.OrderedImputed,
		Picked:           r.Picked.Time,
		PickMinutes:      r.PickMinutes,
		Delivered:        r.Delivered,
		TakenMinutes:     int(r.TakenMinutes.Int64),
		VehicleType:      r.VehicleType,
		VehicleCondition: r.VehicleCondition,
		City:             r.City,
		Traffic:          r.Traffic,
		Weather:          r.Weather,
		Festival:         r.Festival,
		Restaurant:       r.Restaurant,
		Destination:      r.Destination,
		DistanceKm:       r.DistanceKm,
		VelocityKmh:      r.VelocityKmh,
	}
}
