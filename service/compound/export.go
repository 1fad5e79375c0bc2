package compound

import (
	"encoding/csv"
	"io"
	"strconv"

	"ro5-service/service/models"
)

// WriteTSV 以制表符分隔文本输出结果集，首行为列名
func WriteTSV(w io.Writer, rs *models.ResultSet) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(models.ResultColumns); err != nil {
		return err
	}
	if rs != nil {
		for _, row := range rs.Rows {
			record := []string{
				row.GenericName,
				strconv.FormatFloat(row.MW, 'f', -1, 64),
				strconv.FormatFloat(row.LogP, 'f', -1, 64),
				strconv.Itoa(row.HDonors),
				strconv.Itoa(row.HAcceptors),
				row.Smiles,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
