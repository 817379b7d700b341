package cache

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"DeliveryInsights/src/model"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Encode 把清洗后的订单写成 csv 快照，浮点使用精确格式
func Encode(orders []model.Order) ([]byte, error) {
	records := model.Records(orders)
	var buf bytes.Buffer

	// gota 不接受只有表头的数据
	if len(orders) == 0 {
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(records); err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		return buf.Bytes(), nil
	}

	df := dataframe.LoadRecords(records, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", df.Err)
	}
	if err := df.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode 解析 Encode 生成的快照
func Decode(data []byte) ([]model.Order, error) {
	df := dataframe.ReadCSV(bytes.NewReader(data), dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Err != nil {
		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err == nil && len(records) == 1 {
			return model.FromRecords(records)
		}
		return nil, fmt.Errorf("decode snapshot: %w", df.Err)
	}
	return model.FromRecords(df.Records())
}
