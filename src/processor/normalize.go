package processor

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"DeliveryInsights/src/config"
	"DeliveryInsights/src/model"
	"DeliveryInsights/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrMissingColumn 原始表缺少必需的列
var ErrMissingColumn = errors.New("missing required column")

// 原始表的逻辑列名
const (
	rawID            = "ID"
	rawPersonID      = "Delivery_person_ID"
	rawAge           = "Delivery_person_Age"
	rawRating        = "Delivery_person_Ratings"
	rawRestaurantLat = "Restaurant_latitude"
	rawRestaurantLon = "Restaurant_longitude"
	rawDeliveryLat   = "Delivery_location_latitude"
	rawDeliveryLon   = "Delivery_location_longitude"
	rawDate          = "Order_Date"
	rawOrdered       = "Time_Ordered"
	rawPicked        = "Time_Order_picked"
	rawWeather       = "Weatherconditions"
	rawTraffic       = "Road_traffic_density"
	rawCondition     = "Vehicle_condition"
	rawOrderType     = "Type_of_order"
	rawVehicle       = "Type_of_vehicle"
	rawMultiple      = "multiple_deliveries"
	rawFestival      = "Festival"
	rawCity          = "City"
	rawTaken         = "Time_taken(min)"
)

var requiredColumns = []string{
	rawID, rawPersonID, rawAge, rawRating,
	rawRestaurantLat, rawRestaurantLon, rawDeliveryLat, rawDeliveryLon,
	rawDate, rawOrdered, rawPicked,
	rawWeather, rawTraffic, rawCondition, rawOrderType, rawVehicle,
	rawMultiple, rawFestival, rawCity, rawTaken,
}

const (
	maxRating     = 5.0
	weatherPrefix = "conditions "
)

var (
	minutesPattern = regexp.MustCompile(`(\d+)`)
	dateLayouts    = []string{"02-01-2006", "2006-01-02", "2006-01-02 15:04:05"}
	clockLayouts   = []string{"15:04:05", "15:04", "15:04:05.000"}
)

// Normalizer 把原始字符串表转为 Row：去空白、修正列名与取值、解析数值和时刻
type Normalizer struct {
	data *config.DataConfig
}

func NewNormalizer(data *config.DataConfig) *Normalizer {
	if data == nil {
		data = config.DefaultDataConfig()
	}
	return &Normalizer{data: data}
}

// Frame 修正表头并去除所有单元格首尾空白
func (n *Normalizer) Frame(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for oldName, newName := range n.data.RenameColumns {
		if utils.HasColumn(df, oldName) && !utils.HasColumn(df, newName) {
			df = df.Rename(newName, oldName)
		}
	}

	for _, logical := range requiredColumns {
		if !utils.HasColumn(df, n.data.GetColumn(logical)) {
			return df, fmt.Errorf("%w: %s", ErrMissingColumn, n.data.GetColumn(logical))
		}
	}

	for _, name := range df.Names() {
		records := df.Col(name).Records()
		for i, v := range records {
			records[i] = strings.TrimSpace(v)
		}
		df = df.Mutate(series.New(records, series.String, name))
	}
	if df.Err != nil {
		return df, fmt.Errorf("normalize frame: %w", df.Err)
	}
	return df, nil
}

// Rows 逐行解析；无法解析的值记为缺失，不报错
func (n *Normalizer) Rows(df dataframe.DataFrame) ([]*Row, error) {
	df, err := n.Frame(df)
	if err != nil {
		return nil, err
	}

	cols := make(map[string][]string, len(requiredColumns))
	for _, logical := range requiredColumns {
		cols[logical] = df.Col(n.data.GetColumn(logical)).Records()
	}

	rows := make([]*Row, df.Nrow())
	for i := range rows {
		get := func(logical string) string { return cols[logical][i] }

		r := &Row{
			ID:                 n.text(get(rawID)),
			ServiceID:          n.text(get(rawPersonID)),
			Age:                n.integer(get(rawAge)),
			Rating:             n.number(get(rawRating)),
			RestaurantLat:      n.number(get(rawRestaurantLat)),
			RestaurantLon:      n.number(get(rawRestaurantLon)),
			DeliveryLat:        n.number(get(rawDeliveryLat)),
			DeliveryLon:        n.number(get(rawDeliveryLon)),
			Date:               n.date(get(rawDate)),
			OrderedClock:       n.clock(get(rawOrdered)),
			PickedClock:        n.clock(get(rawPicked)),
			TakenMinutes:       n.minutes(get(rawTaken)),
			MultipleDeliveries: n.integer(get(rawMultiple)),
			VehicleCondition:   n.integer(get(rawCondition)),
			Weather:            n.category(rawWeather, strings.TrimPrefix(get(rawWeather), weatherPrefix)),
			Traffic:            n.category(rawTraffic, get(rawTraffic)),
			OrderType:          n.category(rawOrderType, get(rawOrderType)),
			VehicleType:        n.category(rawVehicle, get(rawVehicle)),
			Festival:           n.category(rawFestival, get(rawFestival)),
			City:               n.category(rawCity, get(rawCity)),
		}
		if r.Rating.Valid {
			r.Rating.Float64 = math.Min(math.Max(r.Rating.Float64, 0), maxRating)
		}
		rows[i] = r
	}
	return rows, nil
}

func (n *Normalizer) text(v string) string {
	v = strings.TrimSpace(v)
	if n.data.IsNullMarker(v) {
		return ""
	}
	return v
}

// number 非数值、NaN、Inf 均视为缺失
func (n *Normalizer) number(v string) sql.NullFloat64 {
	v = n.text(v)
	if v == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func (n *Normalizer) integer(v string) sql.NullInt64 {
	f := n.number(v)
	if !f.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(math.Round(f.Float64)), Valid: true}
}

// minutes 从 "(min) 24" 之类的文本中提取分钟数
func (n *Normalizer) minutes(v string) sql.NullInt64 {
	v = n.text(v)
	m := minutesPattern.FindString(v)
	if m == "" {
		return sql.NullInt64{}
	}
	minutes, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: minutes, Valid: true}
}

// date 支持常见日期格式以及 Excel 序列日期
func (n *Normalizer) date(v string) sql.NullTime {
	v = n.text(v)
	if v == "" {
		return sql.NullTime{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			y, m, d := t.Date()
			return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
		}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial >= 1 && !math.IsInf(serial, 0) {
		y, m, d := utils.ExcelSerialToTime(serial).Date()
		return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
	}
	return sql.NullTime{}
}

// clock 支持 HH:MM[:SS] 以及 Excel 的日内小数(0.5 = 12:00)
func (n *Normalizer) clock(v string) NullDuration {
	v = n.text(v)
	if v == "" {
		return NullDuration{}
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
			return NullDuration{Duration: d, Valid: true}
		}
	}
	if fraction, err := strconv.ParseFloat(v, 64); err == nil && fraction >= 0 && fraction < 1 {
		return NullDuration{Duration: utils.ExcelFractionToClock(fraction), Valid: true}
	}
	return NullDuration{}
}

// category 修正拼写后校验枚举，空值标记与非法取值归为 Unknown
func (n *Normalizer) category(column, v string) string {
	v = n.data.FixValue(strings.TrimSpace(v))
	if n.data.IsNullMarker(v) {
		return model.Unknown
	}
	if allowed := n.data.GetCategories(column); len(allowed) > 0 && !utils.Contains(allowed, v) {
		return model.Unknown
	}
	return v
}
