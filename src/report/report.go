package report

import (
	"fmt"

	"DeliveryInsights/src/analytics"
	"DeliveryInsights/src/model"
	"DeliveryInsights/src/utils"
)

// 工作表名称(Excel 限制 31 个字符)
const (
	SheetMetrics          = "metrics"
	SheetOrdersPerDay     = "orders_per_day"
	SheetOrdersPerWeek    = "orders_per_week"
	SheetWeeklyPerService = "weekly_per_service"
	SheetOrdersByTraffic  = "orders_by_traffic"
	SheetCityTraffic      = "orders_by_city_traffic"
	SheetRatingsService   = "ratings_by_service"
	SheetRatingsTraffic   = "ratings_by_traffic"
	SheetRatingsWeather   = "ratings_by_weather"
	SheetFastest          = "top_fastest"
	SheetSlowest          = "top_slowest"
	SheetPickCity         = "pick_time_by_city"
	SheetPickOrderType    = "pick_time_by_order_type"
	SheetPickTraffic      = "pick_time_by_traffic"
	SheetCentral          = "central_locations"
	SheetRestaurants      = "restaurant_locations"
	SheetHeatmap          = "heatmap_points"
	SheetAge              = "deliveries_by_age"
	SheetCondition        = "deliveries_by_condition"
	SheetOutliers         = "outliers"
	SheetDataset          = "dataset"
)

// Sheets 按看板的顺序生成所有工作表，orders 应已筛选
func Sheets(orders []model.Order) []utils.Sheet {
	return []utils.Sheet{
		{Name: SheetMetrics, Data: analytics.MetricsTable(analytics.Company(orders), analytics.Delivery(orders), analytics.Restaurant(orders))},
		{Name: SheetOrdersPerDay, Data: analytics.OrdersPerDay(orders)},
		{Name: SheetOrdersPerWeek, Data: analytics.OrdersPerWeek(orders)},
		{Name: SheetWeeklyPerService, Data: analytics.WeeklyOrdersPerService(orders)},
		{Name: SheetOrdersByTraffic, Data: analytics.OrdersByTraffic(orders)},
		{Name: SheetCityTraffic, Data: analytics.OrdersByCityAndTraffic(orders)},
		{Name: SheetRatingsService, Data: analytics.MeanRatingsByService(orders)},
		{Name: SheetRatingsTraffic, Data: analytics.RatingsByTraffic(orders)},
		{Name: SheetRatingsWeather, Data: analytics.RatingsByWeather(orders)},
		{Name: SheetFastest, Data: analytics.TopVelocity(orders, false)},
		{Name: SheetSlowest, Data: analytics.TopVelocity(orders, true)},
		{Name: SheetPickCity, Data: analytics.PickTimeByCity(orders)},
		{Name: SheetPickOrderType, Data: analytics.PickTimeByOrderType(orders)},
		{Name: SheetPickTraffic, Data: analytics.PickTimeByTraffic(orders)},
		{Name: SheetCentral, Data: analytics.CentralDeliveryLocations(orders)},
		{Name: SheetRestaurants, Data: analytics.RestaurantLocations(orders)},
		{Name: SheetHeatmap, Data: analytics.HeatmapPoints(orders)},
		{Name: SheetAge, Data: analytics.DeliveriesByAge(orders)},
		{Name: SheetCondition, Data: analytics.DeliveriesByVehicleCondition(orders)},
		{Name: SheetOutliers, Data: model.Frame(analytics.Outliers(orders, analytics.DefaultBounds))},
		{Name: SheetDataset, Data: model.Frame(orders)},
	}
}

// Write 筛选后写出报表工作簿
func Write(path string, orders []model.Order, filter analytics.Filter) error {
	filtered := filter.Apply(orders)
	sheets := Sheets(filtered)
	for _, s := range sheets {
		if s.Data.Err != nil {
			return fmt.Errorf("sheet %s: %w", s.Name, s.Data.Err)
		}
	}
	if err := utils.WriteWorkbook(path, sheets); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
