package importer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/verisage-dev/verisage/internal/forms"
	"github.com/verisage-dev/verisage/internal/model"
)

func amountFields(f model.Form) []string {
	var out []string
	for _, a := range f.Amounts {
		out = append(out, a.Field)
	}
	return out
}

func TestCSVParser_Testdata(t *testing.T) {
	data, err := os.ReadFile("../../testdata/import/submissions.csv")
	require.NoError(t, err)

	p := &CSVParser{}
	got, err := p.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 3, "blank row skipped")

	ajah := got[0]
	assert.Equal(t, "LAGOS ZONE 3", ajah.Zone, "header Zone maps to zone")
	assert.Equal(t, "AJAH", ajah.Branch)
	assert.Equal(t, 2025, ajah.Year)
	assert.Equal(t, []string{"offering", "tithe"}, amountFields(ajah), "empty cells dropped")
	assert.Empty(t, ajah.Extra)

	abakpa := got[1]
	assert.Equal(t, "DECEMBER", abakpa.Month)
	assert.Equal(t, []string{"offering", "tithe", "buildingProject"}, amountFields(abakpa))
	assert.Equal(t, "12000.5", abakpa.Amount("offering").String())
	assert.Equal(t, []model.Attribute{{Key: "remarks", Value: "late submission"}}, abakpa.Extra)

	assert.Empty(t, got[2].Branch)
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	got, err := (&CSVParser{}).Parse(strings.NewReader("branch,month,offering\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCSVParser_BOMAndLifecycleColumns(t *testing.T) {
	in := "\ufeffbranch,status,id,offering\nAJAH,posted,forged,100\n"
	got, err := (&CSVParser{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AJAH", got[0].Branch)
	assert.Empty(t, got[0].Status)
	assert.Empty(t, got[0].ID)
}

func TestCSVParser_BadRow(t *testing.T) {
	_, err := (&CSVParser{}).Parse(strings.NewReader("branch,year\nAJAH,twenty\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func writeWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXParser_Parse(t *testing.T) {
	data := writeWorkbook(t, [][]any{
		{"branch", "month", "year", "tithe", "offering"},
		{"AJAH", "DECEMBER", 2025, 213700, 45400},
		{},
		{"IKEJA", "NOVEMBER", 2025, 1000.25, nil},
	})

	got, err := (&XLSXParser{}).Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "AJAH", got[0].Branch)
	assert.Equal(t, []string{"tithe", "offering"}, amountFields(got[0]))
	assert.True(t, decimal.NewFromInt(45400).Equal(got[0].Amount("offering")))

	assert.Equal(t, "NOVEMBER", got[1].Month)
	assert.Equal(t, []string{"tithe"}, amountFields(got[1]))
	assert.True(t, decimal.RequireFromString("1000.25").Equal(got[1].Amount("tithe")))
}

func TestXLSXParser_FormattedNumbers(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"branch", "month", "offering", "tithe", "Phone"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"AJAH", "DECEMBER", 45400, 213700, "08031234567"}))
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "C2", "D2", thousands))
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := (&XLSXParser{}).Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"offering", "tithe"}, amountFields(got[0]))
	assert.True(t, decimal.NewFromInt(45400).Equal(got[0].Amount("offering")))
	assert.True(t, decimal.NewFromInt(213700).Equal(got[0].Amount("tithe")))
	assert.Equal(t, []model.Attribute{{Key: "Phone", Value: "08031234567"}}, got[0].Extra)
}

func TestCSVParser_FormattedAmountRejectsFile(t *testing.T) {
	_, err := (&CSVParser{}).Parse(strings.NewReader("branch,month,offering\nAJAH,DECEMBER,\"45,400\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "offering")
}

func TestXLSXParser_NamedSheet(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("December")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("December", "A1", &[]any{"branch", "month", "offering"}))
	require.NoError(t, f.SetSheetRow("December", "A2", &[]any{"AJAH", "DECEMBER", 10}))
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	first, err := (&XLSXParser{}).Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, first, "first sheet is blank")

	got, err := (&XLSXParser{Sheet: "December"}).Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AJAH", got[0].Branch)
}

func TestXLSXParser_NotAWorkbook(t *testing.T) {
	_, err := (&XLSXParser{}).Parse(strings.NewReader("branch,month\n"))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []string{"csv", "xlsx"}, reg.Formats())
	assert.NotNil(t, reg.Get("CSV"))
	assert.Nil(t, reg.Get("ofx"))
	assert.Equal(t, "xlsx", reg.ForFile("December.XLSX").Format())
	assert.Nil(t, reg.ForFile("notes.txt"))

	assert.Panics(t, func() { reg.Register(&CSVParser{}) })
}

func setupImportDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "import")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range []string{"a.csv", "b.xlsx", "notes.txt", ".hidden.csv", "~$b.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.csv"), 0o755))
	return root
}

func TestScan(t *testing.T) {
	root := setupImportDir(t)
	reg := DefaultRegistry()

	files, err := Scan(root, reg, "")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.csv", files[0].Name)
	assert.Equal(t, "csv", files[0].Parser.Format())
	assert.Equal(t, "b.xlsx", files[1].Name)

	files, err = Scan(root, reg, "xlsx")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "b.xlsx", files[0].Name)

	_, err = Scan(root, reg, "ofx")
	assert.ErrorContains(t, err, "unknown import format")
}

func TestScan_NoDir(t *testing.T) {
	files, err := Scan(t.TempDir(), DefaultRegistry(), "")
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	root := setupImportDir(t)
	require.NoError(t, MarkProcessed(root, "a.csv"))

	_, err := os.Stat(filepath.Join(root, "import", "a.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "import", "processed", "a.csv"))
	assert.NoError(t, err)
}

type validatingSubmitter struct {
	n int
}

func (s *validatingSubmitter) Submit(_ context.Context, f model.Form) (model.Form, error) {
	if err := forms.Validate(f); err != nil {
		return model.Form{}, err
	}
	s.n++
	f.ID = fmt.Sprintf("form-%d", s.n)
	return f, nil
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "import")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := os.ReadFile("../../testdata/import/submissions.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "december.csv"), data, 0o644))

	reports, err := Run(context.Background(), root, DefaultRegistry(), "", &validatingSubmitter{})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	rep := reports[0]
	assert.Equal(t, "december.csv", rep.File)
	assert.Equal(t, []string{"form-1", "form-2"}, rep.Submitted)
	require.Len(t, rep.Rejected, 1)
	assert.Equal(t, 3, rep.Rejected[0].Index)
	assert.ErrorIs(t, rep.Rejected[0].Err, forms.ErrValidation)

	_, err = os.Stat(filepath.Join(root, "import", "processed", "december.csv"))
	assert.NoError(t, err)
}

func TestRun_UnparseableFileStays(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "import")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xlsx"), []byte("not a zip"), 0o644))

	_, err := Run(context.Background(), root, DefaultRegistry(), "", &validatingSubmitter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.xlsx")

	_, err = os.Stat(filepath.Join(dir, "broken.xlsx"))
	assert.NoError(t, err)
}
