package model

import (
	"database/sql"
	"time"
)

// Unknown 分类列的兜底取值
const Unknown = "Unknown"

// 清洗后数据集的列名，报表与看板按原样使用
const (
	ColID               = "ID"
	ColServiceID        = "Delivery_service_ID"
	ColAge              = "Delivery_person_Age"
	ColRating           = "Delivery_person_Ratings"
	ColOrderType        = "Type_of_order"
	ColOrdered          = "Time_Ordered"
	ColOrderedImputed   = "Time_Ordered_imputed"
	ColPicked           = "Time_Order_picked"
	ColPickMinutes      = "Pick_time(min)"
	ColDelivered        = "Time_Order_delivered"
	ColTakenMinutes     = "Time_taken(min)"
	ColVehicleType      = "Type_of_vehicle"
	ColVehicleCondition = "Vehicle_condition"
	ColCity             = "City"
	ColTraffic          = "Road_traffic_density"
	ColWeather          = "Weatherconditions"
	ColFestival         = "Festival"
	ColRestaurantLat    = "Restaurant_latitude"
	ColRestaurantLon    = "Restaurant_longitude"
	ColDeliveryLat      = "Delivery_location_latitude"
	ColDeliveryLon      = "Delivery_location_longitude"
	ColDistance         = "Distance(km)"
	ColVelocity         = "Velocity(km/h)"
)

// ColOrderDate 原始下单日期列，不出现在清洗结果中，仅作为补值统计的列标签
const ColOrderDate = "Order_Date"

// Columns 清洗后数据集的列顺序
var Columns = []string{
	ColID, ColServiceID, ColAge, ColRating, ColOrderType,
	ColOrdered, ColOrderedImputed, ColPicked, ColPickMinutes, ColDelivered, ColTakenMinutes,
	ColVehicleType, ColVehicleCondition, ColCity, ColTraffic, ColWeather, ColFestival,
	ColRestaurantLat, ColRestaurantLon, ColDeliveryLat, ColDeliveryLon,
	ColDistance, ColVelocity,
}

// TimeLayout 时间列的文本格式
const TimeLayout = "2006-01-02 15:04:05"

// Location 纬度/经度
type Location struct {
	Lat float64
	Lon float64
}

// NullIsland 任一分量小于 1 的坐标视为占位坐标
func (l Location) NullIsland() bool {
	return l.Lat < 1 || l.Lon < 1
}

// Order 清洗后的一条订单
type Order struct {
	ID               string
	ServiceID        string
	Age              int
	Rating           sql.NullFloat64 // 配送员没有任何评分记录时为空
	OrderType        string
	Ordered          time.Time
	OrderedImputed   bool // Ordered 由取货时间减去中位间隔回填，是近似值
	Picked           time.Time
	PickMinutes      int
	Delivered        time.Time
	TakenMinutes     int
	VehicleType      string
	VehicleCondition sql.NullInt64
	City             string
	Traffic          string
	Weather          string
	Festival         string
	Restaurant       Location
	Destination      Location
	DistanceKm       float64
	VelocityKmh      float64 // 用时为 0 时为 Inf/NaN，由使用方过滤
}
