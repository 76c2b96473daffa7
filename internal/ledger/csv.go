package ledger

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const csvHeader = "Name,Datetime,Liters,Price"

// ExportCSV writes one comma-joined line per purchase after a header. Values
// are written as is, without quoting.
func (s *Store) ExportCSV(w io.Writer) error {
	purchases := s.List()
	if len(purchases) == 0 {
		return ErrNothingToExport
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvHeader + "\n"); err != nil {
		return err
	}
	for _, p := range purchases {
		row := strings.Join([]string{p.Name, p.Datetime, formatNumber(p.Liters), formatNumber(p.Price)}, ",")
		if _, err := bw.WriteString(row + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
