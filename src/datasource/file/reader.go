// reader.go
package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnsupportedFormat 原始文件扩展名不是 csv/xlsx
var ErrUnsupportedFormat = errors.New("unsupported source format")

// Source 原始数据文件
type Source struct {
	Path      string
	SheetName string // 仅 xlsx 使用，为空时取第一个工作表
	Encoding  string // 仅 csv 使用
}

// Read 按扩展名读取原始文件，所有列均为字符串
func (s Source) Read() (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv", ".txt":
		return ReadCSV(s.Path, s.Encoding)
	case ".xlsx":
		return ReadXLSX(s.Path, s.SheetName)
	default:
		return dataframe.New(), fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.Path)
	}
}

// ReadCSV 读取原始csv文件
func ReadCSV(filePath, charset string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return DecodeCSV(f, charset)
}

// DecodeCSV 从 r 解码csv，保留原始文本，空值标记交给清洗流程处理
func DecodeCSV(r io.Reader, charset string) (dataframe.DataFrame, error) {
	dec, err := decoder(charset)
	if err != nil {
		return dataframe.New(), err
	}

	df := dataframe.ReadCSV(
		transform.NewReader(r, dec),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return df, fmt.Errorf("parse csv: %w", df.Err)
	}
	return df, nil
}

// decoder 返回字符集对应的解码器，utf-8 时去除 BOM
func decoder(charset string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "latin1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	case "gbk":
		enc = simplifiedchinese.GBK
	default:
		return nil, fmt.Errorf("unsupported encoding %q", charset)
	}
	return enc.NewDecoder(), nil
}

// ReadXLSX 读取 xlsx 工作表(首行为表头)
func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("xlsx open file: %w", err)
	}

	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("excel文件中没有工作表: %s", filePath)
	}
	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		var ok bool
		if sheet, ok = xlFile.Sheet[sheetName]; !ok {
			return dataframe.New(), fmt.Errorf("工作表 %q 不存在", sheetName)
		}
	}

	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) == 0 {
		return dataframe.New(), fmt.Errorf("sheet %s 没有数据", sheet.Name)
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}

	// 准备数据列，缺失的单元格补空字符串
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}
	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			value := ""
			if row != nil && i < len(row.Cells) {
				value = row.Cells[i].Value
			}
			columns[i] = append(columns[i], value)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return df, fmt.Errorf("转换为dataframe失败: %w", df.Err)
	}
	return df, nil
}
