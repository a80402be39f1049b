package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/finsim/household-forecast/internal/domain"
)

// CSVYearlyExporter writes one row per projected calendar year.
type CSVYearlyExporter struct{}

func (c CSVYearlyExporter) Name() string { return "csv" }

func (c CSVYearlyExporter) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "AgeSelf", "AgeSpouse", "Income", "Expenses", "DebtService", "NetCashFlow", "Growth", "TotalAssets", "DebtOutstanding", "NetWorth", "Depleted"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, y := range result.Yearly {
		if err := w.Write(snapshotRow(strconv.Itoa(y.Period.Year), y)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVMonthlyExporter writes one row per projected month.
type CSVMonthlyExporter struct{}

func (c CSVMonthlyExporter) Name() string { return "detailed-csv" }

func (c CSVMonthlyExporter) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Period", "AgeSelf", "AgeSpouse", "Income", "Expenses", "DebtService", "NetCashFlow", "Growth", "TotalAssets", "DebtOutstanding", "NetWorth", "Depleted"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, m := range result.Monthly {
		if err := w.Write(snapshotRow(m.Period.String(), m)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func snapshotRow(label string, s domain.Snapshot) []string {
	return []string{
		label,
		strconv.Itoa(s.AgeSelf),
		strconv.Itoa(s.AgeSpouse),
		s.Income.StringFixed(2),
		s.Expense.StringFixed(2),
		s.DebtService.StringFixed(2),
		s.NetCashFlow.StringFixed(2),
		s.Growth.StringFixed(2),
		s.TotalBalances().StringFixed(2),
		s.DebtOutstanding.StringFixed(2),
		s.NetWorth().StringFixed(2),
		strconv.FormatBool(s.Depleted),
	}
}
