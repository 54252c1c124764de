// Package export writes budget data to files and reads snapshots back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"budgetpal/internal/core"
)

// DefaultName is the file name prefix used when none is given.
const DefaultName = "budgetpal"

var csvHeader = []string{"kind", "id", "date", "time", "amount", "label", "notes"}

// Report is the content of the printable summary.
type Report struct {
	Overview    core.Overview
	Currency    string
	GeneratedAt time.Time
}

// now and createFile are replaced in tests.
var (
	now        = time.Now
	createFile = func(name string) (io.WriteCloser, error) { return os.Create(name) }
)

// writeFile creates name, lets write fill it and closes it. A failed close
// is reported, since it can lose buffered data.
func writeFile(name string, write func(w io.Writer) error) (err error) {
	file, err := createFile(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", filepath.Base(name), cerr)
		}
	}()
	return write(file)
}

// WriteJSON writes the whole snapshot as indented JSON and returns the
// absolute file path.
func WriteJSON(snap core.Snapshot, dir, name string) (string, error) {
	outputFilename, err := generateFilename(name, dir, "json")
	if err != nil {
		return "", err
	}

	err = writeFile(outputFilename, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(snap); err != nil {
			return fmt.Errorf("encode JSON snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("write JSON file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// WriteCSV writes every record as one CSV row tagged with its kind.
func WriteCSV(snap core.Snapshot, dir, name string) (string, error) {
	outputFilename, err := generateFilename(name, dir, "csv")
	if err != nil {
		return "", err
	}

	err = writeFile(outputFilename, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		if err := writer.Write(csvHeader); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		for _, record := range csvRecords(snap) {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("write CSV record: %w", err)
			}
		}
		writer.Flush()
		return writer.Error()
	})
	if err != nil {
		return "", fmt.Errorf("write CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func csvRecords(snap core.Snapshot) [][]string {
	records := make([][]string, 0, snap.Len())
	for _, e := range snap.Expenses {
		records = append(records, []string{"expense", itoa(e.ID), e.Date, e.Time, amount(e.Amount), e.Category, ""})
	}
	for _, i := range snap.Income {
		records = append(records, []string{"income", itoa(i.ID), i.Date, "", amount(i.Amount), i.Source, i.Notes})
	}
	for _, b := range snap.Budgets {
		records = append(records, []string{"budget", itoa(b.ID), b.Date, "", amount(b.Amount), b.Name, ""})
	}
	for _, g := range snap.SavingsGoals {
		records = append(records, []string{"savings_goal", itoa(g.ID), g.Date, "", "", g.Goal, ""})
	}
	return records
}

// WritePDF renders a one-page summary: totals, top categories and the
// transaction history.
func WritePDF(report Report, dir, name string) (string, error) {
	outputFilename, err := generateFilename(name, dir, "pdf")
	if err != nil {
		return "", err
	}

	ov := report.Overview
	money := func(v float64) string { return core.FormatAmount(report.Currency, v) }

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	sectionTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}

	pdf.AddPage()

	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, "  BudgetPal Report", "", 1, "L", true, 0, "")
	pdf.Ln(8)

	sectionTitle("Summary")
	summary := [][2]string{
		{"Total Income", money(ov.TotalIncome)},
		{"Total Expenses", money(ov.TotalExpenses)},
		{"Balance", money(ov.Balance)},
	}
	for _, row := range summary {
		pdf.CellFormat(95, 7, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, tr(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	if len(ov.TopCategories) > 0 {
		sectionTitle("Top Expense Categories")
		for i, ct := range ov.TopCategories {
			pdf.CellFormat(95, 6, tr(fmt.Sprintf("%d. %s", i+1, ct.Category)), "", 0, "L", false, 0, "")
			pdf.CellFormat(95, 6, tr(money(ct.Amount)), "", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	sectionTitle("Transaction History")
	if len(ov.Feed) == 0 {
		pdf.Cell(0, 6, "No transactions recorded.")
		pdf.Ln(6)
	} else {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 7, "Date", "B", 0, "L", false, 0, "")
		pdf.CellFormat(85, 7, "Description", "B", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, "Type", "B", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, "Amount", "B", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "", 9)
	for _, tx := range ov.Feed {
		pdf.CellFormat(35, 6, tx.Date, "", 0, "L", false, 0, "")
		pdf.CellFormat(85, 6, tr(truncate(tx.Description, 48)), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, string(tx.Kind), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr(money(tx.Amount)), "", 1, "R", false, 0, "")
	}

	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = now()
	}
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, fmt.Sprintf("Generated by BudgetPal | %s", generated.Format(core.DateLayout)), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("write PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ReadJSON loads a snapshot previously written by WriteJSON.
func ReadJSON(path string) (core.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	var snap core.Snapshot
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if snap.ID == "" {
		return core.Snapshot{}, errors.New("decode snapshot: missing id, not a budgetpal export")
	}
	return snap, nil
}

// generateFilename builds <base>_<YYYYMMDD_HHMM>.<ext> inside dir, creating
// dir when needed.
func generateFilename(base, dir, ext string) (string, error) {
	if base == "" {
		base = DefaultName
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory '%s': %w", dir, err)
	}
	timestamp := now().Format("20060102_1504")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext)), nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
