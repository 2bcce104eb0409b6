package mirror

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sort"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jwrobel/budzetnik/internal/config"
)

// SheetsLedger implements Ledger against one tab of a Google spreadsheet
// using a service account.
type SheetsLedger struct {
	svc           *sheets.Service
	spreadsheetID string
	tab           string
	sheetID       int64
}

// NewSheets builds a client from config. Credentials come from the base64
// env-style setting when present (container deploys), otherwise from the
// credentials file.
func NewSheets(ctx context.Context, cfg config.SheetsConfig) (*SheetsLedger, error) {
	var creds []byte
	var err error
	if cfg.CredentialsBase64 != "" {
		creds, err = base64.StdEncoding.DecodeString(cfg.CredentialsBase64 + "==")
		if err != nil {
			creds, err = base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
		}
		if err != nil {
			return nil, fmt.Errorf("decode sheets credentials: %w", err)
		}
	} else {
		creds, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read sheets credentials: %w", err)
		}
	}

	jwt, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	l := &SheetsLedger{svc: svc, spreadsheetID: cfg.SpreadsheetID, tab: cfg.Tab}
	if err := l.resolveSheetID(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *SheetsLedger) resolveSheetID(ctx context.Context) error {
	meta, err := l.svc.Spreadsheets.Get(l.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("open spreadsheet: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties.Title == l.tab {
			l.sheetID = s.Properties.SheetId
			return nil
		}
	}
	return fmt.Errorf("sheet tab %q not found", l.tab)
}

func (l *SheetsLedger) Append(ctx context.Context, rows [][]string) ([]int64, error) {
	positions := make([]int64, 0, len(rows))
	for _, row := range rows {
		values := make([]interface{}, len(row))
		for i, c := range row {
			values[i] = c
		}
		_, err := l.svc.Spreadsheets.Values.
			Append(l.spreadsheetID, l.tab, &sheets.ValueRange{Values: [][]interface{}{values}}).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		if err != nil {
			return positions, fmt.Errorf("append row: %w", err)
		}
		// position = sheet length after the append, by contract
		n, err := l.rowCount(ctx)
		if err != nil {
			return positions, err
		}
		positions = append(positions, n)
	}
	return positions, nil
}

func (l *SheetsLedger) DeleteRows(ctx context.Context, positions []int64) error {
	sorted := append([]int64(nil), positions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	for _, pos := range sorted {
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    l.sheetID,
						Dimension:  "ROWS",
						StartIndex: pos - 1,
						EndIndex:   pos,
					},
				},
			}},
		}
		if _, err := l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("delete row %d: %w", pos, err)
		}
	}
	return nil
}

func (l *SheetsLedger) AllRows(ctx context.Context) ([][]string, error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, l.tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = fmt.Sprint(c)
		}
		out = append(out, cells)
	}
	return out, nil
}

func (l *SheetsLedger) rowCount(ctx context.Context) (int64, error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, l.tab).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("count sheet rows: %w", err)
	}
	return int64(len(resp.Values)), nil
}
