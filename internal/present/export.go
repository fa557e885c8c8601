package present

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
)

const attendeesSheet = "Top Attendees"

// WriteTopAttendeesXLSX writes the full repeat-visitor view as a spreadsheet
// with the same columns as the table.
func WriteTopAttendeesXLSX(w io.Writer, view []attendance.RepeatVisitor) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendeesSheet); err != nil {
		return err
	}

	header := make([]any, 0, len(tableColumns))
	for _, c := range tableColumns {
		header = append(header, c.Name)
	}
	if err := f.SetSheetRow(attendeesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range view {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.FirstName, r.LastName, r.District, r.Subcounty, r.Attendances}
		if err := f.SetSheetRow(attendeesSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(tableColumns), len(view)+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(attendeesSheet, "A1:"+last, nil); err != nil {
		return fmt.Errorf("set auto filter: %w", err)
	}

	return f.Write(w)
}
