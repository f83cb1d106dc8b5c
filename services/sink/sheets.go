package sink

import (
	"context"
	"fmt"
	"os"
	"slices"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

// SheetsConfig holds the spreadsheet destination
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	SheetName       string
}

// sheetsAPI is the part of the Sheets API the sink calls
type sheetsAPI interface {
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	AddSheet(ctx context.Context, spreadsheetID, title string) error
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) (int64, error)
}

// SheetsSink replaces the content of one sheet with the clean dataset
type SheetsSink struct {
	cfg     SheetsConfig
	log     *logger.Logger
	connect func(ctx context.Context, credentialsFile string) (sheetsAPI, error)
}

// NewSheetsSink creates a spreadsheet sink. Without a spreadsheet id every
// load is skipped.
func NewSheetsSink(cfg SheetsConfig, log *logger.Logger) *SheetsSink {
	if cfg.SheetName == "" {
		cfg.SheetName = "Products"
	}
	return &SheetsSink{cfg: cfg, log: logger.OrNop(log), connect: connectSheets}
}

func (s *SheetsSink) Name() string { return "google_sheets" }

func (s *SheetsSink) Load(ctx context.Context, ds record.CleanDataset) Result {
	if s.cfg.SpreadsheetID == "" {
		return Skipped("no spreadsheet id provided")
	}
	if _, err := os.Stat(s.cfg.CredentialsFile); err != nil {
		return Failed(errors.NewSink(s.Name(), "credentials file not found: "+s.cfg.CredentialsFile, err))
	}

	api, err := s.connect(ctx, s.cfg.CredentialsFile)
	if err != nil {
		return Failed(errors.NewSink(s.Name(), "connect failed", err))
	}

	sheetName, err := s.ensureSheet(ctx, api)
	if err != nil {
		return Failed(err)
	}

	id := s.cfg.SpreadsheetID
	if err := api.Clear(ctx, id, fmt.Sprintf("'%s'!A:Z", sheetName)); err != nil {
		s.log.Warn().Err(err).Str("sheet", sheetName).Msg("Could not clear sheet")
	}

	cells, err := api.Update(ctx, id, fmt.Sprintf("'%s'!A1", sheetName), sheetValues(ds))
	if err != nil {
		return Failed(errors.NewSink(s.Name(), "update failed", err))
	}
	s.log.Info().Int64("updated_cells", cells).Str("sheet", sheetName).Msg("Sheet updated")

	return Success("https://docs.google.com/spreadsheets/d/" + id)
}

// ensureSheet returns the sheet to write: the configured one, created when
// missing, or the first existing sheet when creation fails.
func (s *SheetsSink) ensureSheet(ctx context.Context, api sheetsAPI) (string, error) {
	titles, err := api.SheetTitles(ctx, s.cfg.SpreadsheetID)
	if err != nil {
		return "", errors.NewSink(s.Name(), "read spreadsheet failed", err)
	}
	if slices.Contains(titles, s.cfg.SheetName) {
		return s.cfg.SheetName, nil
	}

	s.log.Warn().Str("sheet", s.cfg.SheetName).Strs("existing", titles).Msg("Sheet not found")
	err = api.AddSheet(ctx, s.cfg.SpreadsheetID, s.cfg.SheetName)
	if err == nil {
		s.log.Info().Str("sheet", s.cfg.SheetName).Msg("Created sheet")
		return s.cfg.SheetName, nil
	}
	if len(titles) == 0 {
		return "", errors.NewSink(s.Name(), "create sheet failed", err)
	}

	s.log.Warn().Str("sheet", titles[0]).Msg("Using existing sheet instead")
	return titles[0], nil
}

func sheetValues(ds record.CleanDataset) [][]interface{} {
	values := make([][]interface{}, 0, len(ds)+1)
	header := make([]interface{}, len(record.Columns))
	for i, c := range record.Columns {
		header[i] = c
	}
	values = append(values, header)
	for _, r := range ds {
		values = append(values, []interface{}{r.Title, r.Price, r.Rating, r.Colors, r.Size, r.Gender, r.Timestamp})
	}
	return values
}

// sheetsService adapts the generated client to sheetsAPI
type sheetsService struct {
	svc *sheets.Service
}

func connectSheets(ctx context.Context, credentialsFile string) (sheetsAPI, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}
	return &sheetsService{svc: svc}, nil
}

func (s *sheetsService) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	ss, err := s.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

func (s *sheetsService) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}
	_, err := s.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (s *sheetsService) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (s *sheetsService) Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) (int64, error) {
	resp, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, err
	}
	return resp.UpdatedCells, nil
}
