// internal/report/xlsx.go
package report

import (
	"fmt"
	"io"
	"strings"

	"mandi-workers/internal/mandi"

	"github.com/xuri/excelize/v2"
)

const (
	RankingSheet = "Ranking"
	RequestSheet = "Request"
)

var rankingHeader = []interface{}{
	"Rank", "Mandi", "Location", "Distance (km)", "Price/kg", "Shelf life (days)",
	"Total cost", "Profit", "Margin %", "Score", "Reasons",
}

// Ranking is one ranking run as exported to a workbook.
type Ranking struct {
	Scenario        string
	Request         mandi.PurchaseRequest
	Recommendations []mandi.Recommendation
}

// WriteRanking writes r as an xlsx workbook with a ranking sheet and a
// request sheet.
func WriteRanking(w io.Writer, r Ranking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RankingSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRankingSheet(f, r.Recommendations); err != nil {
		return err
	}

	if _, err := f.NewSheet(RequestSheet); err != nil {
		return fmt.Errorf("create request sheet: %w", err)
	}
	if err := writeRequestSheet(f, r); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRankingSheet(f *excelize.File, recs []mandi.Recommendation) error {
	if err := f.SetSheetRow(RankingSheet, "A1", &rankingHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(RankingSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, rec := range recs {
		var score interface{} = ""
		if rec.Score != nil {
			score = *rec.Score
		}
		row := []interface{}{
			rec.Rank,
			rec.Name,
			rec.Location,
			rec.Distance,
			rec.PricePerKg,
			rec.ShelfLife,
			rec.TotalCost,
			rec.Profit,
			rec.ProfitMargin,
			score,
			strings.Join(rec.ReasonTexts, "; "),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RankingSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(RankingSheet, "B", "C", 28); err != nil {
		return err
	}
	return f.SetColWidth(RankingSheet, "K", "K", 60)
}

func writeRequestSheet(f *excelize.File, r Ranking) error {
	mode := r.Request.Mode
	if mode == "" {
		mode = mandi.ModeBalanced
	}
	rows := [][]interface{}{
		{"Scenario", r.Scenario},
		{"Product", r.Request.ProductName},
		{"Required quantity (kg)", r.Request.RequiredQuantity},
		{"Resale price/kg", r.Request.ResalePrice},
		{"Requester latitude", r.Request.Requester.Latitude},
		{"Requester longitude", r.Request.Requester.Longitude},
		{"Mode", string(mode)},
		{"Qualified mandis", len(r.Recommendations)},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RequestSheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write request row %d: %w", i+1, err)
		}
	}
	return nil
}
