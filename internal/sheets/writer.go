package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/service"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer implements ReportWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

var _ ReportWriter = (*Writer)(nil)

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWriterWithService(service, config, logger), nil
}

// NewWriterWithService creates a writer on an already configured Sheets service.
func NewWriterWithService(service *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}
}

// Write replaces the content of every report tab.
func (w *Writer) Write(ctx context.Context, data *TabData) error {
	w.logger.Info("starting report export",
		"deliveries", len(data.Deliveries),
		"clients", len(data.Clients),
		"months", len(data.MonthlyRevenue))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	sheetIDs, err := w.ensureTabs(ctx, spreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to prepare tabs: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  max(1, w.config.RetryAttempts),
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	tabValues := map[string][][]any{
		TabMonthlyRevenue: prepareMonthlyRevenue(data),
		TabCommissions:    prepareCommissions(data),
		TabDeliveries:     prepareDeliveries(data),
		TabClients:        prepareClients(data),
	}

	rows := 0
	for _, tab := range Tabs {
		values := tabValues[tab]
		err = common.WithRetry(ctx, func() error {
			if err := w.clearTab(ctx, spreadsheetID, tab); err != nil {
				return err
			}
			return w.writeData(ctx, spreadsheetID, tab, values)
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", tab, err)
		}
		rows += len(values)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, sheetIDs)
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", rows)

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates one with every tab.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
	}
	for _, tab := range Tabs {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: tab},
		})
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// ensureTabs adds missing report tabs and returns the sheet id of every tab.
func (w *Writer) ensureTabs(ctx context.Context, spreadsheetID string) (map[string]int64, error) {
	existing, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err)
	}

	ids := make(map[string]int64, len(Tabs))
	for _, sheet := range existing.Sheets {
		if sheet.Properties != nil {
			ids[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}

	var requests []*sheets.Request
	for _, tab := range Tabs {
		if _, ok := ids[tab]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: tab},
				},
			})
		}
	}
	if len(requests) == 0 {
		return ids, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to add tabs: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			ids[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}
	w.logger.Debug("added missing tabs", "count", len(requests))

	return ids, nil
}

func (w *Writer) clearTab(ctx context.Context, spreadsheetID, tab string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tabRange(tab, "A:Z"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes the data to a tab in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, tabRange(tab, fmt.Sprintf("A%d", i+1)), valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()

		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", tab, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

func tabRange(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", tab, cells)
}

func prepareMonthlyRevenue(data *TabData) [][]any {
	values := make([][]any, 0, len(data.MonthlyRevenue)+1)
	values = append(values, []any{"Mois", "Livraisons", "Revenu", "Bénéfice"})
	for _, row := range data.MonthlyRevenue {
		values = append(values, []any{row.Month, row.Deliveries, amount(row.Revenue), amount(row.Profit)})
	}
	return values
}

func prepareCommissions(data *TabData) [][]any {
	values := make([][]any, 0, len(data.Commissions)+1)
	values = append(values, []any{"Mois", "Paiements", "Total", "Partiels", "Complets", "Commission"})
	for _, row := range data.Commissions {
		values = append(values, []any{
			row.Month,
			row.Payments,
			amount(row.TotalAmount),
			amount(row.PartialAmount),
			amount(row.FullAmount),
			amount(row.Commission),
		})
	}
	return values
}

func prepareDeliveries(data *TabData) [][]any {
	values := make([][]any, 0, len(data.Deliveries)+1)
	values = append(values, []any{"Date", "Suivi", "Colis", "Client", "Statut", "Mode", "Paiement", "Valeur déclarée", "Poids"})
	for _, row := range data.Deliveries {
		values = append(values, []any{
			row.Date.Format("2006-01-02"),
			row.Tracking,
			row.Package,
			row.Client,
			row.Status,
			row.Method,
			row.Payment,
			amount(row.DeclaredValue),
			row.Weight,
		})
	}
	return values
}

func prepareClients(data *TabData) [][]any {
	values := make([][]any, 0, len(data.Clients)+1)
	values = append(values, []any{"Nom", "Téléphone", "Livraisons", "En attente", "Total dépensé", "Dernière livraison", "Livraison à domicile"})
	for _, row := range data.Clients {
		last := ""
		if row.LastDelivery != nil {
			last = row.LastDelivery.Format("2006-01-02")
		}
		home := "Non"
		if row.HomeDelivery {
			home = "Oui"
		}
		values = append(values, []any{row.Name, row.Phone, row.Deliveries, row.Pending, amount(row.TotalSpent), last, home})
	}
	return values
}

// amount converts a decimal for a numeric cell.
func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// applyFormatting bolds header rows, freezes them, formats money columns and resizes columns.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetIDs map[string]int64) error {
	moneyColumns := map[string][2]int64{
		TabMonthlyRevenue: {2, 4},
		TabCommissions:    {2, 6},
		TabDeliveries:     {7, 8},
		TabClients:        {4, 5},
	}
	pattern := "#,##0"
	if w.config.Currency != "" {
		pattern += " \"" + w.config.Currency + "\""
	}

	var requests []*sheets.Request
	for _, tab := range Tabs {
		sheetID, ok := sheetIDs[tab]
		if !ok {
			continue
		}
		cols := moneyColumns[tab]
		requests = append(requests,
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:       sheetID,
						StartRowIndex: 0,
						EndRowIndex:   1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{Bold: true},
							BackgroundColor: &sheets.Color{
								Red:   0.9,
								Green: 0.9,
								Blue:  0.9,
								Alpha: 1.0,
							},
						},
					},
					Fields: "userEnteredFormat.textFormat,userEnteredFormat.backgroundColor",
				},
			},
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    1,
						StartColumnIndex: cols[0],
						EndColumnIndex:   cols[1],
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							NumberFormat: &sheets.NumberFormat{
								Type:    "NUMBER",
								Pattern: pattern,
							},
						},
					},
					Fields: "userEnteredFormat.numberFormat",
				},
			},
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: sheetID,
						GridProperties: &sheets.GridProperties{
							FrozenRowCount: 1,
						},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
			&sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   9,
					},
				},
			},
		)
	}
	if len(requests) == 0 {
		return nil
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
