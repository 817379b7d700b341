package utils

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// excelEpoch Excel 序列日期的零点(已包含1900年闰年错误的修正)
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerialToTime 把 Excel 序列值(天数.小数)转为时间，秒级取整
func ExcelSerialToTime(serial float64) time.Time {
	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second)
}

// ExcelFractionToClock 把 Excel 日内小数转为当天的时刻，四舍五入到秒后不超过 23:59:59
func ExcelFractionToClock(fraction float64) time.Duration {
	seconds := math.Round((fraction - math.Floor(fraction)) * 86400)
	d := time.Duration(seconds) * time.Second
	if d >= 24*time.Hour {
		d = 24*time.Hour - time.Second
	}
	return d
}

// Median 中位数，偶数个时取中间两个的平均；空切片返回 NaN
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Quantile 线性插值分位数(与 pandas 默认一致)，不修改入参；空切片返回 NaN
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// Sheet 工作簿中的一个工作表
type Sheet struct {
	Name string
	Data dataframe.DataFrame
}

// WriteWorkbook 把多个 DataFrame 分别写入同名工作表；非有限浮点写为空单元格
func WriteWorkbook(filePath string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("没有可写入的工作表")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("重命名工作表失败: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("创建工作表 %s 失败: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	// 写入列名
	colNames := sheet.Data.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, name); err != nil {
			return fmt.Errorf("写入 %s 表头失败: %w", sheet.Name, err)
		}
	}

	// 写入数据
	for colIdx, colName := range colNames {
		col := sheet.Data.Col(colName)
		for rowIdx := 0; rowIdx < col.Len(); rowIdx++ {
			val := col.Val(rowIdx)
			if fv, ok := val.(float64); ok && (math.IsNaN(fv) || math.IsInf(fv, 0)) {
				continue
			}
			if col.Elem(rowIdx).IsNA() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet.Name, cell, val); err != nil {
				return fmt.Errorf("写入 %s!%s 失败: %w", sheet.Name, cell, err)
			}
		}
	}
	return nil
}
