package repositories

import (
	"fmt"

	"tracker-bot/logging"

	"github.com/sony/gobreaker"
	"google.golang.org/api/sheets/v4"
)

// RecordRepository is the range-level contract the services work against.
// Ranges use A1 notation and always start at row 2; row 1 is the header.
type RecordRepository interface {
	ReadRange(readRange string) ([][]string, error)
	AppendRow(appendRange string, row []string) error
	UpdateRange(updateRange string, values [][]string) error
}

// SheetRepository implements RecordRepository on top of one Google
// Spreadsheet. Every remote call goes through the circuit breaker.
type SheetRepository struct {
	svc           *sheets.Service
	spreadsheetID string
	breaker       *gobreaker.CircuitBreaker
}

func NewSheetRepository(svc *sheets.Service, spreadsheetID string, breaker *gobreaker.CircuitBreaker) *SheetRepository {
	return &SheetRepository{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		breaker:       breaker,
	}
}

func (r *SheetRepository) ReadRange(readRange string) ([][]string, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.svc.Spreadsheets.Values.Get(r.spreadsheetID, readRange).Do()
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: SHEET_READ_FAILED, Description: Reading range %s failed: %v", readRange, err)
		return nil, fmt.Errorf("failed to read range %s: %v", readRange, err)
	}

	resp := result.(*sheets.ValueRange)
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *SheetRepository) AppendRow(appendRange string, row []string) error {
	body := &sheets.ValueRange{Values: [][]interface{}{toCells(row)}}
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.svc.Spreadsheets.Values.Append(r.spreadsheetID, appendRange, body).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Do()
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: SHEET_APPEND_FAILED, Description: Appending to range %s failed: %v", appendRange, err)
		return fmt.Errorf("failed to append row to %s: %v", appendRange, err)
	}
	return nil
}

func (r *SheetRepository) UpdateRange(updateRange string, values [][]string) error {
	body := &sheets.ValueRange{Values: make([][]interface{}, 0, len(values))}
	for _, row := range values {
		body.Values = append(body.Values, toCells(row))
	}
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.svc.Spreadsheets.Values.Update(r.spreadsheetID, updateRange, body).
			ValueInputOption("USER_ENTERED").
			Do()
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: SHEET_UPDATE_FAILED, Description: Updating range %s failed: %v", updateRange, err)
		return fmt.Errorf("failed to update range %s: %v", updateRange, err)
	}
	return nil
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
