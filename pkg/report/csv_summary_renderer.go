package report

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type CsvSummaryRenderer struct {
	currencySymbol string
}

func NewCsvSummaryRenderer(currencySymbol string) *CsvSummaryRenderer {
	return &CsvSummaryRenderer{currencySymbol: currencySymbol}
}

func (c *CsvSummaryRenderer) Render(r PlanReport) (string, error) {
	data := [][]string{
		{Title(r), ""},
		{"Date", r.Date.Format(DateLayout)},
	}
	for _, line := range Lines(r, c.currencySymbol) {
		data = append(data, []string{line.Label, line.Amount})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}
