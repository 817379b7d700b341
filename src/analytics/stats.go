package analytics

import (
	"math"
	"sort"

	"DeliveryInsights/src/model"

	"gonum.org/v1/gonum/stat"
)

// 空输入返回 NaN，与 pandas 一致
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// stdDev 样本标准差，少于两个值时为 NaN
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil)
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// group 一个分组键及其取值
type group struct {
	key    string
	values []float64
	count  int
}

// groupBy 按键分组，键按字典序排列；value 返回 false 的行只计数不取值
func groupBy(orders []model.Order, key func(model.Order) string, value func(model.Order) (float64, bool)) []group {
	index := make(map[string]int)
	var groups []group
	for _, o := range orders {
		k := key(o)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].count++
		if value == nil {
			continue
		}
		if v, ok := value(o); ok {
			groups[i].values = append(groups[i].values, v)
		}
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].key < groups[b].key })
	return groups
}

func rating(o model.Order) (float64, bool) {
	return o.Rating.Float64, o.Rating.Valid
}

func pickMinutes(o model.Order) (float64, bool) {
	return float64(o.PickMinutes), true
}

func velocity(o model.Order) (float64, bool) {
	return o.VelocityKmh, finite(o.VelocityKmh)
}
