package analytics

import (
	"math"

	"DeliveryInsights/src/model"
)

// CompanyMetrics 公司视角的指标，周序列中无订单的周按 0 计入
type CompanyMetrics struct {
	Restaurants              int     `json:"restaurants"`
	MeanOrdersPerRestaurant  float64 `json:"mean_orders_per_restaurant"`
	DeliveryServices         int     `json:"delivery_services"`
	MeanDeliveriesPerService float64 `json:"mean_deliveries_per_service"`
	TotalDeliveries          int     `json:"total_deliveries"`
	WeekMaxDeliveries        float64 `json:"week_max_deliveries"`
	WeekMinDeliveries        float64 `json:"week_min_deliveries"`
	WeekMeanDeliveries       float64 `json:"week_mean_deliveries"`
	WeekStdDevDeliveries     float64 `json:"week_std_dev_deliveries"`
	WeekMeanDiffDeliveries   float64 `json:"week_mean_diff_deliveries"`
}

func Company(orders []model.Order) CompanyMetrics {
	restaurants := make(map[model.Location]struct{})
	services := make(map[string]struct{})
	for _, o := range orders {
		restaurants[o.Restaurant] = struct{}{}
		services[o.ServiceID] = struct{}{}
	}

	m := CompanyMetrics{
		Restaurants:              len(restaurants),
		MeanOrdersPerRestaurant:  math.NaN(),
		DeliveryServices:         len(services),
		MeanDeliveriesPerService: math.NaN(),
	}
	if len(restaurants) > 0 {
		m.MeanOrdersPerRestaurant = float64(len(orders)) / float64(len(restaurants))
	}
	if len(services) > 0 {
		m.MeanDeliveriesPerService = float64(len(orders)) / float64(len(services))
	}

	weeks := weeklyCounts(orders)
	counts := make([]float64, len(weeks))
	var diffs []float64
	for i, w := range weeks {
		counts[i] = float64(w.Orders)
		m.TotalDeliveries += w.Orders
		if i > 0 {
			diffs = append(diffs, counts[i]-counts[i-1])
		}
	}
	m.WeekMinDeliveries, m.WeekMaxDeliveries = minMax(counts)
	m.WeekMeanDeliveries = mean(counts)
	m.WeekStdDevDeliveries = stdDev(counts)
	m.WeekMeanDiffDeliveries = mean(diffs)
	return m
}

// DeliveryMetrics 配送员评分与配送距离
type DeliveryMetrics struct {
	RatingsMin           float64 `json:"ratings_min"`
	RatingsMax           float64 `json:"ratings_max"`
	RatingsMean          float64 `json:"ratings_mean"`
	RatingsStdDev        float64 `json:"ratings_std_dev"`
	MeanDeliveryDistance float64 `json:"mean_delivery_distance"`
}

func Delivery(orders []model.Order) DeliveryMetrics {
	var ratings, distances []float64
	for _, o := range orders {
		if v, ok := rating(o); ok {
			ratings = append(ratings, v)
		}
		distances = append(distances, o.DistanceKm)
	}

	var m DeliveryMetrics
	m.RatingsMin, m.RatingsMax = minMax(ratings)
	m.RatingsMean = mean(ratings)
	m.RatingsStdDev = stdDev(ratings)
	m.MeanDeliveryDistance = mean(distances)
	return m
}

// RestaurantMetrics 下单到取货的用时(分钟)
type RestaurantMetrics struct {
	PickTimeMax    float64 `json:"Pick_time_max"`
	PickTimeMin    float64 `json:"Pick_time_min"`
	PickTimeMean   float64 `json:"Pick_time_mean"`
	PickTimeStdDev float64 `json:"Pick_time_std_dev"`
}

func Restaurant(orders []model.Order) RestaurantMetrics {
	values := make([]float64, 0, len(orders))
	for _, o := range orders {
		v, _ := pickMinutes(o)
		values = append(values, v)
	}

	var m RestaurantMetrics
	m.PickTimeMin, m.PickTimeMax = minMax(values)
	m.PickTimeMean = mean(values)
	m.PickTimeStdDev = stdDev(values)
	return m
}
