package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestIngest_CSV_DropsRowMissingPhone(t *testing.T) {
	src := "FirstName,Phone,Notes\n" +
		"Ana,555-0001,first\n" +
		"Bo,,no phone\n" +
		"Cy,555-0003,\n" +
		"Di,555-0004,last\n"

	res, err := Ingest(context.Background(), strings.NewReader(src), FormatCSV)
	require.NoError(t, err)
	require.Len(t, res.Leads, 3)
	require.Equal(t, 1, res.Rejected)

	names := []string{res.Leads[0].FirstName, res.Leads[1].FirstName, res.Leads[2].FirstName}
	require.Equal(t, []string{"Ana", "Cy", "Di"}, names)
	require.Equal(t, "", res.Leads[1].Notes)
}

func TestIngest_CSV_HeaderQuirks(t *testing.T) {
	// BOM, espacios en encabezados, columnas extra, filas cortas y líneas vacías.
	src := "\ufeff FirstName ,Email, Phone\n" +
		"Ana,ana@example.com,100\n" +
		"\n" +
		"Bo,bo@example.com\n" +
		",,\n" +
		"Cy,\"cy@example.com\",\" 300 \"\n"

	res, err := Ingest(context.Background(), strings.NewReader(src), FormatCSV)
	require.NoError(t, err)
	require.Len(t, res.Leads, 2)
	require.Equal(t, "Ana", res.Leads[0].FirstName)
	require.Equal(t, "100", res.Leads[0].Phone)
	require.Equal(t, "300", res.Leads[1].Phone)
	// "Bo" no tiene Phone; la fila ",," es vacía y no cuenta como rechazada.
	require.Equal(t, 1, res.Rejected)
}

func TestIngest_CSV_MissingRequiredColumns(t *testing.T) {
	src := "Name,Mobile\nAna,1\nBo,2\n"
	res, err := Ingest(context.Background(), strings.NewReader(src), FormatCSV)
	require.NoError(t, err)
	require.Empty(t, res.Leads)
	require.Equal(t, 2, res.Rejected)
}

func TestIngest_CSV_Empty(t *testing.T) {
	res, err := Ingest(context.Background(), strings.NewReader(""), FormatCSV)
	require.NoError(t, err)
	require.Empty(t, res.Leads)
}

type failAfterReader struct {
	r   io.Reader
	err error
}

func (f *failAfterReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, f.err
	}
	return n, err
}

func TestRows_CSV_ReadErrorMidStream(t *testing.T) {
	boom := errors.New("disk gone")
	src := &failAfterReader{r: strings.NewReader("FirstName,Phone\nAna,1\nBo,2\nCy,3"), err: boom}

	var got []string
	var gotErr error
	for row, err := range Rows(context.Background(), src, FormatCSV) {
		if err != nil {
			gotErr = err
			break
		}
		got = append(got, row[ColFirstName])
	}
	require.Equal(t, []string{"Ana", "Bo"}, got)
	require.ErrorIs(t, gotErr, ErrRead)
	require.ErrorIs(t, gotErr, boom)

	_, err := Ingest(context.Background(), &failAfterReader{r: strings.NewReader("FirstName,Phone\nAna,1\nBo"), err: boom}, FormatCSV)
	require.ErrorIs(t, err, ErrRead)
}

func TestRows_EarlyBreakStopsReading(t *testing.T) {
	src := "FirstName,Phone\nAna,1\nBo,2\nCy,3\n"
	count := 0
	for _, err := range Rows(context.Background(), strings.NewReader(src), FormatCSV) {
		require.NoError(t, err)
		count++
		if count == 1 {
			break
		}
	}
	require.Equal(t, 1, count)
}

func TestIngest_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Ingest(ctx, strings.NewReader("FirstName,Phone\nAna,1\n"), FormatCSV)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIngest_UnknownFormat(t *testing.T) {
	_, err := Ingest(context.Background(), strings.NewReader("x"), Format("txt"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func buildXLSX(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := r
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	// Una segunda hoja nunca se lee.
	_, err := f.NewSheet("Ignored")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Ignored", "A1", &[]any{"FirstName", "Phone"}))
	require.NoError(t, f.SetSheetRow("Ignored", "A2", &[]any{"Ghost", "000"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestIngest_XLSX_FirstSheetOnly(t *testing.T) {
	buf := buildXLSX(t, [][]any{
		{"FirstName", "Phone", "Notes"},
		{"Ana", 9876543210, "numeric phone"},
		{"Bo", "", "dropped"},
		{"Cy", "555-0003"},
	})

	res, err := Ingest(context.Background(), buf, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, res.Leads, 2)
	require.Equal(t, 1, res.Rejected)
	require.Equal(t, "9876543210", res.Leads[0].Phone)
	require.Equal(t, "numeric phone", res.Leads[0].Notes)
	require.Equal(t, "Cy", res.Leads[1].FirstName)
	require.Equal(t, "", res.Leads[1].Notes)
}

func TestIngest_XLSX_Corrupt(t *testing.T) {
	_, err := Ingest(context.Background(), strings.NewReader("definitely not a zip"), FormatXLSX)
	require.ErrorIs(t, err, ErrRead)
}

func TestIngest_XLS_Corrupt(t *testing.T) {
	_, err := Ingest(context.Background(), bytes.NewReader([]byte("not an ole2 file")), FormatXLS)
	require.ErrorIs(t, err, ErrRead)
}

// testdata/leads.xls: encabezado FirstName/Phone/Notes, teléfono numérico en
// la fila 2, Bruno sin teléfono, fila 4 vacía (sin registro ROW).
func TestIngest_XLS_Workbook(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "leads.xls"))
	require.NoError(t, err)
	defer f.Close()

	res, err := Ingest(context.Background(), f, FormatXLS)
	require.NoError(t, err)
	require.Equal(t, 1, res.Rejected)
	require.Len(t, res.Leads, 3)

	require.Equal(t, "Ana", res.Leads[0].FirstName)
	require.Equal(t, "9876543210", res.Leads[0].Phone)
	require.Equal(t, "call after 5", res.Leads[0].Notes)

	require.Equal(t, "Carla", res.Leads[1].FirstName)
	require.Equal(t, "+1 555 0100", res.Leads[1].Phone)
	require.Equal(t, "", res.Leads[1].Notes)

	require.Equal(t, "Dora", res.Leads[2].FirstName)
	require.Equal(t, "5551234", res.Leads[2].Phone)
}

func TestIngest_XLS_NonSeekableSource(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "leads.xls"))
	require.NoError(t, err)

	// sin Seek: readXLS tiene que bufferizar
	src := struct{ io.Reader }{bytes.NewReader(b)}
	res, err := Ingest(context.Background(), src, FormatXLS)
	require.NoError(t, err)
	require.Len(t, res.Leads, 3)
	require.Equal(t, "9876543210", res.Leads[0].Phone)
}
