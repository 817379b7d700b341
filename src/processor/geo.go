package processor

import (
	"database/sql"
	"math"

	"DeliveryInsights/src/model"
)

// EarthRadiusKm 地球平均半径
const EarthRadiusKm = 6371.0088

// Haversine 两点间的大圆距离(km)
func Haversine(a, b model.Location) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// GeoNormalizer 纠正坐标符号，组装位置并计算距离。
// 缺失的坐标分量记为 0，该位置随即被视为占位坐标
type GeoNormalizer struct{}

func (GeoNormalizer) Name() string { return "geo" }

func (GeoNormalizer) Process(b *Batch) error {
	for _, r := range b.Rows {
		r.Restaurant = model.Location{
			Lat: coordinate(r.RestaurantLat, model.ColRestaurantLat, &b.Stats),
			Lon: coordinate(r.RestaurantLon, model.ColRestaurantLon, &b.Stats),
		}
		r.Destination = model.Location{
			Lat: coordinate(r.DeliveryLat, model.ColDeliveryLat, &b.Stats),
			Lon: coordinate(r.DeliveryLon, model.ColDeliveryLon, &b.Stats),
		}
		r.DistanceKm = Haversine(r.Restaurant, r.Destination)
	}
	return nil
}

func coordinate(v sql.NullFloat64, column string, stats *Stats) float64 {
	if !v.Valid {
		stats.imputed(column)
		return 0
	}
	return math.Abs(v.Float64)
}
