package db

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"feedbackhub/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const columnCount = 11

// Store is the append-only destination for feedback rows.
type Store interface {
	// Append writes one row and returns its 1-indexed row number
	// (the header occupies row 1, so the first data row is 2).
	Append(ctx context.Context, row []interface{}) (int64, error)
	// Ping verifies the destination is reachable.
	Ping(ctx context.Context) (*Status, error)
}

// Status describes the spreadsheet behind the store.
type Status struct {
	Title  string
	Sheets []string
}

// StoreError wraps a spreadsheet failure with the operation that caused it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to save to spreadsheet: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// SheetStore appends feedback rows to one sheet of a Google spreadsheet.
type SheetStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string

	mu      sync.Mutex
	sheetID int64
	ensured bool
}

// NewSheetStore builds a Sheets client from a service account credentials file.
func NewSheetStore(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*SheetStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &SheetStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Ping opens the spreadsheet and lists its sheets
func (s *SheetStore) Ping(ctx context.Context) (*Status, error) {
	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, &StoreError{Op: "open spreadsheet", Err: err}
	}

	status := &Status{Title: spreadsheet.Properties.Title}
	for _, sh := range spreadsheet.Sheets {
		status.Sheets = append(status.Sheets, sh.Properties.Title)
	}
	return status, nil
}

// Append writes one row to the sheet, creating the sheet with its header on
// first use, and applies presentation formatting to the new row only.
func (s *SheetStore) Append(ctx context.Context, row []interface{}) (int64, error) {
	if err := s.ensureSheet(ctx); err != nil {
		return 0, err
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	resp, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.rangeRef(), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, &StoreError{Op: "append row", Err: err}
	}

	rowNumber, err := parseRowNumber(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, &StoreError{Op: "locate appended row", Err: err}
	}

	if err := s.formatRow(ctx, rowNumber); err != nil {
		return 0, err
	}

	log.Printf("Data saved to row %d", rowNumber)
	return rowNumber, nil
}

// ensureSheet looks up the sheet by name and creates it with a bold header
// row when absent. Creation is idempotent: a racing "already exists" from
// another request counts as success, in which case the racer wrote the header.
func (s *SheetStore) ensureSheet(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}

	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return &StoreError{Op: "open spreadsheet", Err: err}
	}

	for _, sh := range spreadsheet.Sheets {
		if sh.Properties.Title == s.sheetName {
			s.sheetID = sh.Properties.SheetId
			s.ensured = true
			return nil
		}
	}

	created, err := s.createSheet(ctx)
	if err != nil {
		return err
	}
	if created {
		if err := s.writeHeader(ctx); err != nil {
			return err
		}
		log.Printf("Created new sheet: %s", s.sheetName)
	}

	s.ensured = true
	return nil
}

// createSheet adds the sheet and reports whether this call created it.
func (s *SheetStore) createSheet(ctx context.Context) (bool, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: s.sheetName},
			},
		}},
	}

	resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return false, s.lookupSheetID(ctx)
		}
		return false, &StoreError{Op: "create sheet", Err: err}
	}

	s.sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	return true, nil
}

func (s *SheetStore) lookupSheetID(ctx context.Context) error {
	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return &StoreError{Op: "open spreadsheet", Err: err}
	}
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties.Title == s.sheetName {
			s.sheetID = sh.Properties.SheetId
			return nil
		}
	}
	return &StoreError{Op: "create sheet", Err: fmt.Errorf("sheet %q reported as existing but not found", s.sheetName)}
}

func (s *SheetStore) writeHeader(ctx context.Context) error {
	header := make([]interface{}, len(models.HeaderLabels))
	for i, label := range models.HeaderLabels {
		header[i] = label
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{header}}
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.rangeRef(), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return &StoreError{Op: "write header", Err: err}
	}

	bold := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          s.sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   columnCount,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat.bold",
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, bold).Context(ctx).Do(); err != nil {
		return &StoreError{Op: "format header", Err: err}
	}
	return nil
}

// formatRow applies the date format, rating alignment and a column auto-fit
// to the freshly appended row. GridRange indices are 0-based.
func (s *SheetStore) formatRow(ctx context.Context, rowNumber int64) error {
	rowIndex := rowNumber - 1

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          s.sheetID,
						StartRowIndex:    rowIndex,
						EndRowIndex:      rowIndex + 1,
						StartColumnIndex: 0,
						EndColumnIndex:   1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							NumberFormat: &sheets.NumberFormat{
								Type:    "DATE_TIME",
								Pattern: "yyyy-mm-dd hh:mm:ss",
							},
						},
					},
					Fields: "userEnteredFormat.numberFormat",
				},
			},
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          s.sheetID,
						StartRowIndex:    rowIndex,
						EndRowIndex:      rowIndex + 1,
						StartColumnIndex: 1,
						EndColumnIndex:   columnCount - 1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							HorizontalAlignment: "CENTER",
						},
					},
					Fields: "userEnteredFormat.horizontalAlignment",
				},
			},
			{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    s.sheetID,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   columnCount,
					},
				},
			},
		},
	}

	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &StoreError{Op: "format row", Err: err}
	}
	return nil
}

func (s *SheetStore) rangeRef() string {
	return fmt.Sprintf("'%s'!A:K", s.sheetName)
}

// parseRowNumber extracts the row from an updated range like "'Form Responses'!A5:K5".
func parseRowNumber(updatedRange string) (int64, error) {
	ref := updatedRange
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	if i := strings.Index(ref, ":"); i >= 0 {
		ref = ref[:i]
	}
	digits := strings.TrimLeftFunc(ref, unicode.IsLetter)
	row, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || row < 1 {
		return 0, fmt.Errorf("unexpected updated range %q", updatedRange)
	}
	return row, nil
}
