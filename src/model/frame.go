package model

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// FormatFloat 精确的浮点格式，保证快照重载后逐字节一致
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Records 按 Columns 顺序把订单转为文本行(首行为表头)
func Records(orders []Order) [][]string {
	records := make([][]string, 0, len(orders)+1)
	records = append(records, append([]string(nil), Columns...))
	for _, o := range orders {
		rating := ""
		if o.Rating.Valid {
			rating = FormatFloat(o.Rating.Float64)
		}
		condition := ""
		if o.VehicleCondition.Valid {
			condition = strconv.FormatInt(o.VehicleCondition.Int64, 10)
		}
		records = append(records, []string{
			o.ID,
			o.ServiceID,
			strconv.Itoa(o.Age),
			rating,
			o.OrderType,
			o.Ordered.Format(TimeLayout),
			strconv.FormatBool(o.OrderedImputed),
			o.Picked.Format(TimeLayout),
			strconv.Itoa(o.PickMinutes),
			o.Delivered.Format(TimeLayout),
			strconv.Itoa(o.TakenMinutes),
			o.VehicleType,
			condition,
			o.City,
			o.Traffic,
			o.Weather,
			o.Festival,
			FormatFloat(o.Restaurant.Lat),
			FormatFloat(o.Restaurant.Lon),
			FormatFloat(o.Destination.Lat),
			FormatFloat(o.Destination.Lon),
			FormatFloat(o.DistanceKm),
			FormatFloat(o.VelocityKmh),
		})
	}
	return records
}

// Frame 把订单转为带类型的 gota DataFrame，空值以 NaN 表示
func Frame(orders []Order) dataframe.DataFrame {
	n := len(orders)
	var (
		ids, services, orderTypes, vehicles, conditions = make([]string, n), make([]string, n), make([]string, n), make([]string, n), make([]string, n)
		cities, traffic, weather, festivals             = make([]string, n), make([]string, n), make([]string, n), make([]string, n)
		ordered, picked, delivered                      = make([]string, n), make([]string, n), make([]string, n)
		ages, pickMinutes, takenMinutes                 = make([]int, n), make([]int, n), make([]int, n)
		imputed                                         = make([]bool, n)
		ratings, rLat, rLon, dLat, dLon, dist, velocity = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	)
	for i, o := range orders {
		ids[i], services[i], orderTypes[i], vehicles[i] = o.ID, o.ServiceID, o.OrderType, o.VehicleType
		cities[i], traffic[i], weather[i], festivals[i] = o.City, o.Traffic, o.Weather, o.Festival
		ordered[i] = o.Ordered.Format(TimeLayout)
		picked[i] = o.Picked.Format(TimeLayout)
		delivered[i] = o.Delivered.Format(TimeLayout)
		ages[i], pickMinutes[i], takenMinutes[i] = o.Age, o.PickMinutes, o.TakenMinutes
		imputed[i] = o.OrderedImputed
		ratings[i] = math.NaN()
		if o.Rating.Valid {
			ratings[i] = o.Rating.Float64
		}
		conditions[i] = "NaN"
		if o.VehicleCondition.Valid {
			conditions[i] = strconv.FormatInt(o.VehicleCondition.Int64, 10)
		}
		rLat[i], rLon[i] = o.Restaurant.Lat, o.Restaurant.Lon
		dLat[i], dLon[i] = o.Destination.Lat, o.Destination.Lon
		dist[i], velocity[i] = o.DistanceKm, o.VelocityKmh
	}

	return dataframe.New(
		series.New(ids, series.String, ColID),
		series.New(services, series.String, ColServiceID),
		series.New(ages, series.Int, ColAge),
		series.New(ratings, series.Float, ColRating),
		series.New(orderTypes, series.String, ColOrderType),
		series.New(ordered, series.String, ColOrdered),
		series.New(imputed, series.Bool, ColOrderedImputed),
		series.New(picked, series.String, ColPicked),
		series.New(pickMinutes, series.Int, ColPickMinutes),
		series.New(delivered, series.String, ColDelivered),
		series.New(takenMinutes, series.Int, ColTakenMinutes),
		series.New(vehicles, series.String, ColVehicleType),
		series.New(conditions, series.Int, ColVehicleCondition),
		series.New(cities, series.String, ColCity),
		series.New(traffic, series.String, ColTraffic),
		series.New(weather, series.String, ColWeather),
		series.New(festivals, series.String, ColFestival),
		series.New(rLat, series.Float, ColRestaurantLat),
		series.New(rLon, series.Float, ColRestaurantLon),
		series.New(dLat, series.Float, ColDeliveryLat),
		series.New(dLon, series.Float, ColDeliveryLon),
		series.New(dist, series.Float, ColDistance),
		series.New(velocity, series.Float, ColVelocity),
	)
}

// FromRecords 解析 Records 生成的文本行
func FromRecords(records [][]string) ([]Order, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("records: missing header")
	}
	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[name] = i
	}
	for _, name := range Columns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("records: missing column %q", name)
		}
	}

	orders := make([]Order, 0, len(records)-1)
	for line, rec := range records[1:] {
		p := recordParser{rec: rec, idx: idx}
		o := Order{
			ID:           p.str(ColID),
			ServiceID:    p.str(ColServiceID),
			Age:          p.intCol(ColAge),
			OrderType:    p.str(ColOrderType),
			Ordered:      p.timeCol(ColOrdered),
			Picked:       p.timeCol(ColPicked),
			PickMinutes:  p.intCol(ColPickMinutes),
			Delivered:    p.timeCol(ColDelivered),
			TakenMinutes: p.intCol(ColTakenMinutes),
			VehicleType:  p.str(ColVehicleType),
			City:         p.str(ColCity),
			Traffic:      p.str(ColTraffic),
			Weather:      p.str(ColWeather),
			Festival:     p.str(ColFestival),
			Restaurant:   Location{Lat: p.floatCol(ColRestaurantLat), Lon: p.floatCol(ColRestaurantLon)},
			Destination:  Location{Lat: p.floatCol(ColDeliveryLat), Lon: p.floatCol(ColDeliveryLon)},
			DistanceKm:   p.floatCol(ColDistance),
			VelocityKmh:  p.floatCol(ColVelocity),
		}
		o.OrderedImputed = p.boolCol(ColOrderedImputed)
		if s := p.str(ColRating); s != "" {
			o.Rating = sql.NullFloat64{Float64: p.floatCol(ColRating), Valid: true}
		}
		if s := p.str(ColVehicleCondition); s != "" && s != "NaN" {
			o.VehicleCondition = sql.NullInt64{Int64: int64(p.intCol(ColVehicleCondition)), Valid: true}
		}
		if p.err != nil {
			return nil, fmt.Errorf("records: row %d: %w", line+1, p.err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// recordParser 记录第一个解析错误
type recordParser struct {
	rec []string
	idx map[string]int
	err error
}

func (p *recordParser) str(col string) string {
	i := p.idx[col]
	if i >= len(p.rec) {
		return ""
	}
	return p.rec[i]
}

func (p *recordParser) intCol(col string) int {
	v, err := strconv.Atoi(p.str(col))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}

func (p *recordParser) floatCol(col string) float64 {
	v, err := strconv.ParseFloat(p.str(col), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}

func (p *recordParser) timeCol(col string) time.Time {
	v, err := time.Parse(TimeLayout, p.str(col))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}

func (p *recordParser) boolCol(col string) bool {
	v, err := strconv.ParseBool(p.str(col))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}
