package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"legisdir/internal"
	"legisdir/internal/util"
)

var reportHeaders = []string{
	"seq", "path", "field", "owner", "kind_from", "action", "cleaned", "email", "direct_e164",
}

func ExportChangesToXLSX(changes []internal.ContactChange, phoneRegion, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, c := range changes {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		cleaned := util.DerefString(c.Cleaned)
		set(1, i+1)
		set(2, c.Path)
		set(3, c.Field)
		set(4, util.DerefString(c.Owner))
		set(5, c.KindFrom)
		set(6, string(c.Action))
		set(7, cleaned)
		set(8, util.DerefString(c.Email))
		set(9, util.E164(cleaned, phoneRegion))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
