package analytics

import (
	"math"
	"sort"

	"DeliveryInsights/src/model"
	"DeliveryInsights/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 结果表的列名，图表按原样使用
const (
	ColWeek            = "Week_Ordered"
	ColDay             = "Day_Ordered"
	ColOrders          = "Orders"
	ColPercent         = "percent"
	ColRank            = "Rank"
	ColMeanRating      = "Mean_rating"
	ColGroupMeanRating = "Mean_Rating"
	ColGroupStdRating  = "Std_Rating"
	ColMeanTime        = "Mean_time"
	ColStdTime         = "Std_time"
	ColWeekOrders      = "ID_Count"
	ColActiveServices  = "Active_services"
	ColOrdersByService = "Order_by_delivery"
	ColLatitude        = "Latitude"
	ColLongitude       = "Longitude"
)

// TopK 排行榜长度
const TopK = 10

// WeekCount 某一周的订单数
type WeekCount struct {
	Week   int
	Orders int
}

// weeklyCounts 最小周到最大周之间的连续序列，无订单的周为 0
func weeklyCounts(orders []model.Order) []WeekCount {
	if len(orders) == 0 {
		return nil
	}
	counts := make(map[int]int)
	first, last := math.MaxInt, math.MinInt
	for _, o := range orders {
		w := WeekOfYear(o.Ordered)
		counts[w]++
		first = min(first, w)
		last = max(last, w)
	}

	weeks := make([]WeekCount, 0, last-first+1)
	for w := first; w <= last; w++ {
		weeks = append(weeks, WeekCount{Week: w, Orders: counts[w]})
	}
	return weeks
}

// OrdersPerWeek 每周订单数(周序号连续)
func OrdersPerWeek(orders []model.Order) dataframe.DataFrame {
	weeks := weeklyCounts(orders)
	idx := make([]int, len(weeks))
	counts := make([]int, len(weeks))
	for i, w := range weeks {
		idx[i], counts[i] = w.Week, w.Orders
	}
	return dataframe.New(
		series.New(idx, series.Int, ColWeek),
		series.New(counts, series.Int, ColOrders),
	)
}

// OrdersPerDay 每天订单数，按日期升序
func OrdersPerDay(orders []model.Order) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return dayOf(o.Ordered).Format("2006-01-02") }, nil)
	days := make([]string, len(groups))
	counts := make([]int, len(groups))
	for i, g := range groups {
		days[i], counts[i] = g.key, g.count
	}
	return dataframe.New(
		series.New(days, series.String, ColDay),
		series.New(counts, series.Int, ColOrders),
	)
}

// WeeklyOrdersPerService 每周订单数、活跃配送员数及人均订单，周序号连续
func WeeklyOrdersPerService(orders []model.Order) dataframe.DataFrame {
	active := make(map[int]map[string]struct{})
	for _, o := range orders {
		w := WeekOfYear(o.Ordered)
		if active[w] == nil {
			active[w] = make(map[string]struct{})
		}
		active[w][o.ServiceID] = struct{}{}
	}

	weeks := weeklyCounts(orders)
	idx := make([]int, len(weeks))
	counts := make([]int, len(weeks))
	services := make([]int, len(weeks))
	perService := make([]float64, len(weeks))
	for i, w := range weeks {
		idx[i], counts[i], services[i] = w.Week, w.Orders, len(active[w.Week])
		if services[i] > 0 {
			perService[i] = float64(counts[i]) / float64(services[i])
		}
	}
	return dataframe.New(
		series.New(idx, series.Int, ColWeek),
		series.New(counts, series.Int, ColWeekOrders),
		series.New(services, series.Int, ColActiveServices),
		series.New(perService, series.Float, ColOrdersByService),
	)
}

// MeanRatingsByService 每个配送员的平均评分(两位小数)，降序；没有评分的配送员不列出
func MeanRatingsByService(orders []model.Order) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return o.ServiceID }, rating)
	type entry struct {
		id   string
		mean float64
	}
	var entries []entry
	for _, g := range groups {
		if len(g.values) == 0 {
			continue
		}
		entries = append(entries, entry{g.key, math.Round(mean(g.values)*100) / 100})
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].mean > entries[b].mean })

	ranks := make([]int, len(entries))
	ids := make([]string, len(entries))
	means := make([]float64, len(entries))
	for i, e := range entries {
		ranks[i], ids[i], means[i] = i+1, e.id, e.mean
	}
	return dataframe.New(
		series.New(ranks, series.Int, ColRank),
		series.New(ids, series.String, model.ColServiceID),
		series.New(means, series.Float, ColMeanRating),
	)
}

// meanStdTable 按键分组的均值与样本标准差
func meanStdTable(groups []group, keyCol, meanCol, stdCol string) dataframe.DataFrame {
	keys := make([]string, len(groups))
	means := make([]float64, len(groups))
	stds := make([]float64, len(groups))
	for i, g := range groups {
		keys[i], means[i], stds[i] = g.key, mean(g.values), stdDev(g.values)
	}
	return dataframe.New(
		series.New(keys, series.String, keyCol),
		series.New(means, series.Float, meanCol),
		series.New(stds, series.Float, stdCol),
	)
}

func RatingsByTraffic(orders []model.Order) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return o.Traffic }, rating)
	return meanStdTable(groups, model.ColTraffic, ColGroupMeanRating, ColGroupStdRating)
}

func RatingsByWeather(orders []model.Order) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return o.Weather }, rating)
	return meanStdTable(groups, model.ColWeather, ColGroupMeanRating, ColGroupStdRating)
}

func PickTimeByCity(orders []model.Order) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return o.City }, pickMinutes)
	return meanStdTable(groups, model.ColCity, ColMeanTime, ColStdTime)
}

func PickTimeByOrderType(orders []model.Order) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return o.OrderType }, pickMinutes)
	return meanStdTable(groups, model.ColOrderType, ColMeanTime, ColStdTime)
}

func PickTimeByTraffic(orders []model.Order) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return o.Traffic }, pickMinutes)
	return meanStdTable(groups, model.ColTraffic, ColMeanTime, ColStdTime)
}

// TopVelocity 每个配送员的平均速度排行，前 TopK 名，名次从 1 开始。
// ascending 为 true 时返回最慢的配送员；非有限速度不参与平均
func TopVelocity(orders []model.Order, ascending bool) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return o.ServiceID }, velocity)
	type entry struct {
		id    string
		speed float64
	}
	var entries []entry
	for _, g := range groups {
		if len(g.values) > 0 {
			entries = append(entries, entry{g.key, mean(g.values)})
		}
	}
	// groups 已按 ID 排序，速度相同时保持 ID 顺序
	sort.SliceStable(entries, func(a, b int) bool {
		if ascending {
			return entries[a].speed < entries[b].speed
		}
		return entries[a].speed > entries[b].speed
	})
	if len(entries) > TopK {
		entries = entries[:TopK]
	}

	ranks := make([]int, len(entries))
	ids := make([]string, len(entries))
	speeds := make([]float64, len(entries))
	for i, e := range entries {
		ranks[i], ids[i], speeds[i] = i+1, e.id, e.speed
	}
	return dataframe.New(
		series.New(ranks, series.Int, ColRank),
		series.New(ids, series.String, model.ColServiceID),
		series.New(speeds, series.Float, model.ColVelocity),
	)
}

// OrdersByTraffic 各交通状况的订单数及占比
func OrdersByTraffic(orders []model.Order) dataframe.DataFrame {
	groups := groupBy(orders, func(o model.Order) string { return o.Traffic }, nil)
	keys := make([]string, len(groups))
	counts := make([]int, len(groups))
	shares := make([]float64, len(groups))
	for i, g := range groups {
		keys[i], counts[i] = g.key, g.count
		shares[i] = float64(g.count) / float64(len(orders))
	}
	return dataframe.New(
		series.New(keys, series.String, model.ColTraffic),
		series.New(counts, series.Int, ColOrders),
		series.New(shares, series.Float, ColPercent),
	)
}

// OrdersByCityAndTraffic 城市类型 x 交通状况的订单数
func OrdersByCityAndTraffic(orders []model.Order) dataframe.DataFrame {
	type pair struct{ city, traffic string }
	counts := make(map[pair]int)
	for _, o := range orders {
		counts[pair{o.City, o.Traffic}]++
	}
	keys := make([]pair, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].city != keys[b].city {
			return keys[a].city < keys[b].city
		}
		return keys[a].traffic < keys[b].traffic
	})

	cities := make([]string, len(keys))
	traffic := make([]string, len(keys))
	n := make([]int, len(keys))
	for i, k := range keys {
		cities[i], traffic[i], n[i] = k.city, k.traffic, counts[k]
	}
	return dataframe.New(
		series.New(cities, series.String, model.ColCity),
		series.New(traffic, series.String, model.ColTraffic),
		series.New(n, series.Int, ColOrders),
	)
}

// CentralDeliveryLocations 每个城市类型 x 交通状况的送达位置中位数，去掉占位坐标
func CentralDeliveryLocations(orders []model.Order) dataframe.DataFrame {
	type pair struct{ city, traffic string }
	lats := make(map[pair][]float64)
	lons := make(map[pair][]float64)
	for _, o := range orders {
		k := pair{o.City, o.Traffic}
		lats[k] = append(lats[k], o.Destination.Lat)
		lons[k] = append(lons[k], o.Destination.Lon)
	}

	type row struct {
		pair
		loc model.Location
	}
	var rows []row
	for k := range lats {
		loc := model.Location{Lat: utils.Median(lats[k]), Lon: utils.Median(lons[k])}
		if loc.NullIsland() {
			continue
		}
		rows = append(rows, row{k, loc})
	}
	sort.Slice(rows, func(a, b int) bool {
		if rows[a].city != rows[b].city {
			return rows[a].city < rows[b].city
		}
		return rows[a].traffic < rows[b].traffic
	})

	cities := make([]string, len(rows))
	traffic := make([]string, len(rows))
	latCol := make([]float64, len(rows))
	lonCol := make([]float64, len(rows))
	for i, r := range rows {
		cities[i], traffic[i], latCol[i], lonCol[i] = r.city, r.traffic, r.loc.Lat, r.loc.Lon
	}
	return dataframe.New(
		series.New(cities, series.String, model.ColCity),
		series.New(traffic, series.String, model.ColTraffic),
		series.New(latCol, series.Float, ColLatitude),
		series.New(lonCol, series.Float, ColLongitude),
	)
}

// RestaurantLocations 每个餐厅位置的订单数，去掉占位坐标
func RestaurantLocations(orders []model.Order) dataframe.DataFrame {
	counts := make(map[model.Location]int)
	for _, o := range orders {
		if !o.Restaurant.NullIsland() {
			counts[o.Restaurant]++
		}
	}
	locs := make([]model.Location, 0, len(counts))
	for loc := range counts {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(a, b int) bool {
		if locs[a].Lat != locs[b].Lat {
			return locs[a].Lat < locs[b].Lat
		}
		return locs[a].Lon < locs[b].Lon
	})

	lat := make([]float64, len(locs))
	lon := make([]float64, len(locs))
	n := make([]int, len(locs))
	for i, loc := range locs {
		lat[i], lon[i], n[i] = loc.Lat, loc.Lon, counts[loc]
	}
	return dataframe.New(
		series.New(lat, series.Float, ColLatitude),
		series.New(lon, series.Float, ColLongitude),
		series.New(n, series.Int, ColOrders),
	)
}

// HeatmapPoints 所有有效送达位置，按订单顺序
func HeatmapPoints(orders []model.Order) dataframe.DataFrame {
	var lat, lon []float64
	for _, o := range orders {
		if !o.Destination.NullIsland() {
			lat = append(lat, o.Destination.Lat)
			lon = append(lon, o.Destination.Lon)
		}
	}
	return dataframe.New(
		series.New(nonNil(lat), series.Float, ColLatitude),
		series.New(nonNil(lon), series.Float, ColLongitude),
	)
}

// DeliveriesByAge 各年龄的订单数，按年龄升序
func DeliveriesByAge(orders []model.Order) dataframe.DataFrame {
	counts := make(map[int]int)
	for _, o := range orders {
		counts[o.Age]++
	}
	return intCounts(counts, model.ColAge)
}

// DeliveriesByVehicleCondition 各车况的订单数，车况为空的订单不计
func DeliveriesByVehicleCondition(orders []model.Order) dataframe.DataFrame {
	counts := make(map[int]int)
	for _, o := range orders {
		if o.VehicleCondition.Valid {
			counts[int(o.VehicleCondition.Int64)]++
		}
	}
	return intCounts(counts, model.ColVehicleCondition)
}

func intCounts(counts map[int]int, keyCol string) dataframe.DataFrame {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	n := make([]int, len(keys))
	for i, k := range keys {
		n[i] = counts[k]
	}
	return dataframe.New(
		series.New(keys, series.Int, keyCol),
		series.New(n, series.Int, ColOrders),
	)
}

func nonNil(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}

// MetricsTable 把指标结构体转为 指标/取值 两列的表
func MetricsTable(c CompanyMetrics, d DeliveryMetrics, r RestaurantMetrics) dataframe.DataFrame {
	keys := []string{
		"restaurants", "mean_orders_per_restaurant", "delivery_services", "mean_deliveries_per_service",
		"total_deliveries", "week_max_deliveries", "week_min_deliveries", "week_mean_deliveries",
		"week_std_dev_deliveries", "week_mean_diff_deliveries",
		"ratings_min", "ratings_max", "ratings_mean", "ratings_std_dev", "mean_delivery_distance",
		"Pick_time_max", "Pick_time_min", "Pick_time_mean", "Pick_time_std_dev",
	}
	values := []float64{
		float64(c.Restaurants), c.MeanOrdersPerRestaurant, float64(c.DeliveryServices), c.MeanDeliveriesPerService,
		float64(c.TotalDeliveries), c.WeekMaxDeliveries, c.WeekMinDeliveries, c.WeekMeanDeliveries,
		c.WeekStdDevDeliveries, c.WeekMeanDiffDeliveries,
		d.RatingsMin, d.RatingsMax, d.RatingsMean, d.RatingsStdDev, d.MeanDeliveryDistance,
		r.PickTimeMax, r.PickTimeMin, r.PickTimeMean, r.PickTimeStdDev,
	}
	return dataframe.New(
		series.New(keys, series.String, "Metric"),
		series.New(values, series.Float, "Value"),
	)
}
