package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"roaddog-system/config"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// ErrSpreadsheetNotFound is returned by name discovery when no matching,
// non-trashed spreadsheet is visible to the credentials in use.
var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

// Client wraps the Sheets and Drive services behind the narrow surface the
// sync orchestrator needs: value reads/writes plus sheet-tab management.
type Client struct {
	sheetsService *sheets.Service
	driveService  *drive.Service
}

// New builds a client from either OAuth user credentials (client + token
// JSON) or a service-account key, preferring OAuth when both are set.
func New(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	httpClient, err := newHTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	clientOpt := option.WithHTTPClient(httpClient)

	sheetsService, err := sheets.NewService(ctx, clientOpt)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx, clientOpt)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &Client{
		sheetsService: sheetsService,
		driveService:  driveService,
	}, nil
}

func newHTTPClient(ctx context.Context, cfg config.SheetsConfig) (*http.Client, error) {
	if cfg.OAuthClientJSON != "" && cfg.OAuthTokenJSON != "" {
		oauthCfg, err := google.ConfigFromJSON([]byte(cfg.OAuthClientJSON), sheets.SpreadsheetsScope, drive.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("oauth config: %w", err)
		}

		tok := &oauth2.Token{}
		if err := json.Unmarshal([]byte(cfg.OAuthTokenJSON), tok); err != nil {
			return nil, fmt.Errorf("oauth token: %w", err)
		}

		return oauthCfg.Client(ctx, tok), nil
	}

	data := []byte(cfg.CredentialsJSON)
	if len(data) == 0 && cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		data = b
	}
	if len(data) == 0 {
		return nil, errors.New("no Google credentials configured")
	}

	serviceConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("service account config: %w", err)
	}
	return serviceConfig.Client(ctx), nil
}

// FindSpreadsheetByName resolves a spreadsheet ID from its Drive file name.
func (c *Client) FindSpreadsheetByName(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", "\\'"), spreadsheetMimeType)

	fileList, err := c.driveService.Files.List().Q(q).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("search drive: %w", err)
	}

	for _, file := range fileList.Files {
		if file.Name == name {
			return file.Id, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, name)
}

func (c *Client) Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := c.sheetsService.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *Client) BatchGet(ctx context.Context, spreadsheetID string, ranges []string) ([][][]interface{}, error) {
	resp, err := c.sheetsService.Spreadsheets.Values.BatchGet(spreadsheetID).Ranges(ranges...).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	values := make([][][]interface{}, len(resp.ValueRanges))
	for i, vr := range resp.ValueRanges {
		values[i] = vr.Values
	}
	return values, nil
}

func (c *Client) Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         values,
	}
	_, err := c.sheetsService.Spreadsheets.Values.Update(spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	return err
}

func (c *Client) Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         values,
	}
	_, err := c.sheetsService.Spreadsheets.Values.Append(spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		IncludeValuesInResponse(false).
		Context(ctx).Do()
	return err
}

func (c *Client) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	_, err := c.sheetsService.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return err
}

func (c *Client) SheetExists(ctx context.Context, spreadsheetID, title string) (bool, error) {
	_, err := c.sheetID(ctx, spreadsheetID, title)
	if errors.Is(err, errSheetMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}
	_, err := c.sheetsService.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (c *Client) DeleteSheet(ctx context.Context, spreadsheetID, title string) error {
	sheetID, err := c.sheetID(ctx, spreadsheetID, title)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheetID},
		}},
	}
	_, err = c.sheetsService.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

// BoldHeaderRow bolds one full row, 1-based.
func (c *Client) BoldHeaderRow(ctx context.Context, spreadsheetID, title string, row int) error {
	sheetID, err := c.sheetID(ctx, spreadsheetID, title)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: int64(row - 1),
					EndRowIndex:   int64(row),
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
	_, err = c.sheetsService.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

var errSheetMissing = errors.New("sheet not present")

func (c *Client) sheetID(ctx context.Context, spreadsheetID, title string) (int64, error) {
	spreadsheet, err := c.sheetsService.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == title {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", errSheetMissing, title)
}
