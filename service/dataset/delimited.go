/*
 * @module service/dataset/delimited
 * @description 分隔符文本表(TSV/CSV)解析，支持字符集转换与缺失值剔除
 * @architecture 工具函数 - 读取器 -> 字符集解码 -> 行解析 -> 化合物记录
 * @documentReference dev_docs/screening.md
 * @stateFlow io.Reader -> UTF-8 文本 -> CompoundTable
 * @rules
 *   - 表头必须包含名称列与结构编码列
 *   - 常见缺失值标记(NA、NaN、null等)按空值处理
 *   - DropIncomplete 时任一列为空的行整体剔除
 * @dependencies golang.org/x/text
 * @refs service/utils/data_converter.go (编码转换)
 */

package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"ro5-service/service/models"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 表格格式
const (
	FormatTSV = "tsv"
	FormatCSV = "csv"
)

// TableOptions 表解析选项
type TableOptions struct {
	Format         string
	Charset        string
	NameColumn     string
	SmilesColumn   string
	DropIncomplete bool
}

func (o TableOptions) withDefaults() TableOptions {
	if o.Format == "" {
		o.Format = FormatTSV
	}
	if o.NameColumn == "" {
		o.NameColumn = models.DefaultNameColumn
	}
	if o.SmilesColumn == "" {
		o.SmilesColumn = models.DefaultSmilesColumn
	}
	return o
}

// naValues 视为缺失的单元格取值
var naValues = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true,
	"null": true, "NULL": true, "None": true, "#N/A": true, "<NA>": true,
}

// IsMissing 单元格是否为缺失值
func IsMissing(v string) bool {
	return naValues[strings.TrimSpace(v)]
}

// charsetEncoding 字符集名称到解码器
func charsetEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "gbk", "gb2312":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("不支持的字符集: %s", name)
	}
}

// DecodeReader 按字符集包装读取器并去除 UTF-8 BOM
func DecodeReader(r io.Reader, charset string) (io.Reader, error) {
	enc, err := charsetEncoding(charset)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	return br, nil
}

// ParseTable 解析分隔符文本表
func ParseTable(r io.Reader, opts TableOptions) (*models.CompoundTable, error) {
	opts = opts.withDefaults()

	decoded, err := DecodeReader(r, opts.Charset)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	switch opts.Format {
	case FormatTSV:
		reader.Comma = '\t'
	case FormatCSV:
		reader.Comma = ','
	default:
		return nil, fmt.Errorf("不支持的表格格式: %s", opts.Format)
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("数据表为空")
	}
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	nameIdx, smilesIdx := indexOf(header, opts.NameColumn), indexOf(header, opts.SmilesColumn)
	if nameIdx < 0 {
		return nil, fmt.Errorf("表头缺少名称列 %q", opts.NameColumn)
	}
	if smilesIdx < 0 {
		return nil, fmt.Errorf("表头缺少结构编码列 %q", opts.SmilesColumn)
	}

	table := &models.CompoundTable{Columns: header, Records: []models.CompoundRecord{}}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("第 %d 行解析失败: %w", line, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		cells := make([]string, len(header))
		copy(cells, row)

		if rec, ok := buildRecord(header, cells, nameIdx, smilesIdx, opts.DropIncomplete); ok {
			table.Records = append(table.Records, rec)
		}
	}
	return table, nil
}

// buildRecord 将一行单元格转换为化合物记录，DropIncomplete 且存在缺失值时返回 false
func buildRecord(header, cells []string, nameIdx, smilesIdx int, dropIncomplete bool) (models.CompoundRecord, bool) {
	rec := models.CompoundRecord{Fields: models.JSONB{}}
	for i, col := range header {
		v := strings.TrimSpace(cells[i])
		if IsMissing(v) {
			if dropIncomplete {
				return models.CompoundRecord{}, false
			}
			v = ""
		}
		switch i {
		case nameIdx:
			rec.Name = norm.NFC.String(v)
		case smilesIdx:
			rec.Smiles = v
		default:
			rec.Fields[col] = v
		}
	}
	return rec, true
}

func indexOf(header []string, column string) int {
	for i, h := range header {
		if strings.EqualFold(h, column) {
			return i
		}
	}
	return -1
}
