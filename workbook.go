package slidesmith

import (
	"archive/zip"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const workbookSheet = "Sheet1"

// workbookName is the embedded workbook file name for chart n.
func workbookName(chartIdx int) string {
	return fmt.Sprintf("Microsoft_Excel_Worksheet%d.xlsx", chartIdx)
}

// workbookColumn returns the column letter for a 1-based column number.
func workbookColumn(n int) string {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return "A"
	}
	return name
}

// buildChartWorkbook lays out the chart data the way PowerPoint does: categories
// down column A from row 2, one series per column with its title in row 1.
func buildChartWorkbook(chart *ChartShape) (*excelize.File, error) {
	f := excelize.NewFile()
	series := getChartSeries(chart.plotArea.chartType)
	cats := getCategories(series)

	for r, cat := range cats {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(workbookSheet, cell, cat); err != nil {
			return nil, err
		}
	}
	for c, s := range series {
		col := workbookColumn(c + 2)
		if err := f.SetCellValue(workbookSheet, col+"1", s.Title); err != nil {
			return nil, err
		}
		for r, v := range s.Values {
			if err := f.SetCellValue(workbookSheet, fmt.Sprintf("%s%d", col, r+2), v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func writeChartWorkbook(zw *zip.Writer, chart *ChartShape, chartIdx int) error {
	f, err := buildChartWorkbook(chart)
	if err != nil {
		return fmt.Errorf("chart %d workbook: %w", chartIdx, err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("chart %d workbook: %w", chartIdx, err)
	}
	w, err := zw.Create("ppt/embeddings/" + workbookName(chartIdx))
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}
