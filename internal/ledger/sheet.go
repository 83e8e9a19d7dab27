package ledger

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/gbarbosa/gastos-bot/internal/logger"
	"github.com/gbarbosa/gastos-bot/internal/models"
)

const sheetRange = "A:D"

// SheetStore keeps the ledger in a Google Sheets spreadsheet, one entry
// per row under the fixed header.
type SheetStore struct {
	svc     *sheets.Service
	sheetID string
}

// NewSheetStore connects to the spreadsheet and enforces the header
// contract: if the first row is missing or differs from Header, the sheet
// is cleared and the header rewritten.
func NewSheetStore(ctx context.Context, sheetID, credentialsFile, credentialsJSON string) (*SheetStore, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	} else {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	s := &SheetStore{svc: svc, sheetID: sheetID}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureHeader verifies the first row and resets the sheet on mismatch.
func (s *SheetStore) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, "A1:D1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if len(resp.Values) == 1 && headerMatches(resp.Values[0]) {
		return nil
	}

	logger.Log.Warn().Str("sheet_id", s.sheetID).Msg("Header row missing or mismatched, resetting sheet")

	if _, err := s.svc.Spreadsheets.Values.Clear(s.sheetID, sheetRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.sheetID, "A1:D1", &sheets.ValueRange{
		Values: [][]any{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return nil
}

func headerMatches(row []any) bool {
	if len(row) != len(Header) {
		return false
	}
	for i, h := range Header {
		if cell(row[i]) != h {
			return false
		}
	}
	return true
}

// Append adds one entry as a new row. The Sheets append operation is
// atomic per row, which is the only write guarantee the loop relies on.
func (s *SheetStore) Append(ctx context.Context, entry models.Entry) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.sheetID, sheetRange, &sheets.ValueRange{
		Values: [][]any{encodeRow(entry)},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// Entries reads every data row back. Rows that fail to parse are skipped
// with a warning so one hand-edited cell cannot break every command.
func (s *SheetStore) Entries(ctx context.Context) ([]models.Entry, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(resp.Values) <= 1 {
		return nil, nil
	}

	entries := make([]models.Entry, 0, len(resp.Values)-1)
	for i, row := range resp.Values[1:] {
		entry, err := decodeRow(row)
		if err != nil {
			logger.Log.Warn().Int("row", i+2).Err(err).Msg("Skipping unparseable ledger row")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DeleteLast removes the bottom data row. Sheet rows carry no sender
// column, so only GlobalScope is supported.
func (s *SheetStore) DeleteLast(ctx context.Context, chatID int64) error {
	if chatID != GlobalScope {
		return ErrSenderScopeUnsupported
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	if len(resp.Values) <= 1 {
		return ErrEmpty
	}

	meta, err := s.svc.Spreadsheets.Get(s.sheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet metadata: %w", err)
	}
	if len(meta.Sheets) == 0 {
		return fmt.Errorf("spreadsheet %s has no sheets", s.sheetID)
	}

	last := int64(len(resp.Values)) // 1-based index of the bottom row
	_, err = s.svc.Spreadsheets.BatchUpdate(s.sheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    meta.Sheets[0].Properties.SheetId,
					Dimension:  "ROWS",
					StartIndex: last - 1,
					EndIndex:   last,
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete row: %w", err)
	}
	return nil
}
