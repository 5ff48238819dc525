// Google Sheets v4 implementation of [RangeReader] and [TargetStore]
//
// REST reference: https://developers.google.com/sheets/api/reference/rest
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/shared"
	"golang.org/x/oauth2/jwt"
	"golang.org/x/time/rate"
)

const (
	DefaultSheetsURL = "https://sheets.googleapis.com/v4"
	SheetsScope      = "https://www.googleapis.com/auth/spreadsheets"
	googleTokenURL   = "https://oauth2.googleapis.com/token"

	// Widest column the target is cleared to.
	lastClearColumn = "ZZ"
)

// serviceAccountKey holds the fields of a Google service account JSON key used for JWT signing.
type serviceAccountKey struct {
	Type         string `json:"type"`
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// NewSheetsClient reads the service account key at keyFile and returns an [http.Client]
// that authorizes every request with a Sheets-scoped access token.
func NewSheetsClient(ctx context.Context, keyFile string) (*http.Client, error) {
	if keyFile == "" {
		return nil, fmt.Errorf("%w: credentials.google.service_account_file is not set", shared.ErrMissingCredentials)
	}

	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrMissingCredentials, err)
	}

	conf, err := jwtConfigFromKey(data)
	if err != nil {
		return nil, err
	}

	return conf.Client(ctx), nil
}

// jwtConfigFromKey parses a service account key into a [jwt.Config].
func jwtConfigFromKey(data []byte) (*jwt.Config, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("%w: failed to parse service account key: %v", shared.ErrInvalidCredentials, err)
	}

	if key.Type != "" && key.Type != "service_account" {
		return nil, fmt.Errorf("%w: key type %q is not a service account", shared.ErrInvalidCredentials, key.Type)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("%w: service account key is missing client_email or private_key", shared.ErrInvalidCredentials)
	}

	tokenURL := key.TokenURI
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}

	return &jwt.Config{
		Email:        key.ClientEmail,
		PrivateKey:   []byte(key.PrivateKey),
		PrivateKeyID: key.PrivateKeyID,
		Scopes:       []string{SheetsScope},
		TokenURL:     tokenURL,
	}, nil
}

// SheetsOptions configures a [SheetsService].
type SheetsOptions struct {
	BaseURL           string  // defaults to [DefaultSheetsURL]
	SpreadsheetID     string  // required
	Sheet             string  // worksheet title; empty selects the first worksheet
	RequestsPerSecond float64 // zero or negative disables limiting
}

type sheetProperties struct {
	SheetID int64  `json:"sheetId"`
	Title   string `json:"title"`
}

type spreadsheetMetadata struct {
	SpreadsheetID string `json:"spreadsheetId"`
	Properties    struct {
		Title string `json:"title"`
	} `json:"properties"`
	Sheets []struct {
		Properties sheetProperties `json:"properties"`
	} `json:"sheets"`
}

type valueRange struct {
	Range          string  `json:"range,omitempty"`
	MajorDimension string  `json:"majorDimension,omitempty"`
	Values         [][]any `json:"values"`
}

type sheetsErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// SheetsService implements [RangeReader] and [TargetStore] for one worksheet of a spreadsheet.
type SheetsService struct {
	baseURL       string
	spreadsheetID string
	sheet         string
	sheetID       int64
	title         string
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        *log.Logger
}

// NewSheetsService creates a Sheets client. client must already carry authorization (see [NewSheetsClient]).
func NewSheetsService(client *http.Client, opts SheetsOptions, logger *log.Logger) *SheetsService {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultSheetsURL
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &SheetsService{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		spreadsheetID: opts.SpreadsheetID,
		sheet:         opts.Sheet,
		httpClient:    client,
		limiter:       rate.NewLimiter(limit, 1),
		logger:        shared.WithLogger(logger, "component", "sheets", "spreadsheet", opts.SpreadsheetID),
	}
}

// Open fetches spreadsheet metadata and resolves the configured worksheet.
func (s *SheetsService) Open(ctx context.Context) error {
	if s.spreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheet id is not set", shared.ErrInvalidConfig)
	}

	query := url.Values{}
	query.Set("fields", "spreadsheetId,properties.title,sheets.properties(sheetId,title)")

	var meta spreadsheetMetadata
	if err := s.doRequest(ctx, http.MethodGet, "/spreadsheets/"+url.PathEscape(s.spreadsheetID), query, nil, &meta); err != nil {
		return err
	}

	if len(meta.Sheets) == 0 {
		return fmt.Errorf("%w: spreadsheet %s has no worksheets", shared.ErrAPIRequest, s.spreadsheetID)
	}

	var found *sheetProperties
	if s.sheet == "" {
		found = &meta.Sheets[0].Properties
	} else {
		for i := range meta.Sheets {
			if meta.Sheets[i].Properties.Title == s.sheet {
				found = &meta.Sheets[i].Properties
				break
			}
		}
	}
	if found == nil {
		return fmt.Errorf("%w: worksheet %q not found in spreadsheet %s", shared.ErrAPIRequest, s.sheet, s.spreadsheetID)
	}

	s.sheet = found.Title
	s.sheetID = found.SheetID
	s.title = meta.Properties.Title

	s.logger.Debug("opened spreadsheet", "title", s.title, "sheet", s.sheet)
	return nil
}

// Title returns the spreadsheet title resolved by [SheetsService.Open].
func (s *SheetsService) Title() string { return s.title }

// Sheet returns the worksheet title in use.
func (s *SheetsService) Sheet() string { return s.sheet }

// ReadRange implements [RangeReader].
func (s *SheetsService) ReadRange(ctx context.Context, r models.CellRange) ([][]string, error) {
	vr, err := s.getValues(ctx, r.A1(), "ROWS")
	if err != nil {
		return nil, err
	}
	return toStrings(vr.Values), nil
}

// ReadHeader implements [TargetStore].
func (s *SheetsService) ReadHeader(ctx context.Context) ([]string, error) {
	vr, err := s.getValues(ctx, "1:1", "ROWS")
	if err != nil {
		return nil, err
	}
	rows := toStrings(vr.Values)
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// ReadColumn implements [TargetStore].
func (s *SheetsService) ReadColumn(ctx context.Context, col int) ([]string, error) {
	if col < 1 {
		return nil, fmt.Errorf("%w: column %d", shared.ErrInvalidArgument, col)
	}
	name := models.ColumnName(col)
	vr, err := s.getValues(ctx, name+":"+name, "COLUMNS")
	if err != nil {
		return nil, err
	}
	cols := toStrings(vr.Values)
	if len(cols) == 0 {
		return []string{}, nil
	}
	return cols[0], nil
}

// AppendRow implements [TargetStore].
func (s *SheetsService) AppendRow(ctx context.Context, row []string) error {
	query := url.Values{}
	query.Set("valueInputOption", "RAW")
	query.Set("insertDataOption", "INSERT_ROWS")

	body := valueRange{Values: [][]any{toCells(row)}}
	return s.doRequest(ctx, http.MethodPost, s.valuesPath("A1")+":append", query, body, nil)
}

// InsertRow implements [TargetStore] with an insertDimension request followed by a value update.
func (s *SheetsService) InsertRow(ctx context.Context, position int, row []string) error {
	if position < 1 {
		return fmt.Errorf("%w: row position %d", shared.ErrInvalidArgument, position)
	}

	insert := map[string]any{
		"requests": []any{
			map[string]any{
				"insertDimension": map[string]any{
					"range": map[string]any{
						"sheetId":    s.sheetID,
						"dimension":  "ROWS",
						"startIndex": position - 1,
						"endIndex":   position,
					},
					"inheritFromBefore": position > 1,
				},
			},
		},
	}
	endpoint := "/spreadsheets/" + url.PathEscape(s.spreadsheetID) + ":batchUpdate"
	if err := s.doRequest(ctx, http.MethodPost, endpoint, nil, insert, nil); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("valueInputOption", "RAW")

	a1 := fmt.Sprintf("A%d", position)
	body := valueRange{Values: [][]any{toCells(row)}}
	return s.doRequest(ctx, http.MethodPut, s.valuesPath(a1), query, body, nil)
}

// Clear implements [TargetStore] by clearing every value on the worksheet.
func (s *SheetsService) Clear(ctx context.Context) error {
	return s.doRequest(ctx, http.MethodPost, s.valuesPath("A:"+lastClearColumn)+":clear", nil, map[string]any{}, nil)
}

func (s *SheetsService) getValues(ctx context.Context, a1, dimension string) (*valueRange, error) {
	query := url.Values{}
	query.Set("majorDimension", dimension)
	query.Set("valueRenderOption", "FORMATTED_VALUE")

	var vr valueRange
	if err := s.doRequest(ctx, http.MethodGet, s.valuesPath(a1), query, nil, &vr); err != nil {
		return nil, err
	}
	return &vr, nil
}

func (s *SheetsService) valuesPath(a1 string) string {
	return "/spreadsheets/" + url.PathEscape(s.spreadsheetID) + "/values/" + url.PathEscape(models.QualifiedRange(s.sheet, a1))
}

// doRequest performs an authorized JSON request against the Sheets API.
func (s *SheetsService) doRequest(ctx context.Context, method, endpoint string, query url.Values, body any, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr sheetsErrorResponse
		data, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		s.logger.Debug("sheets API error", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("%w: sheets API status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func toStrings(values [][]any) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				out[i][j] = s
			} else {
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out
}

func toCells(row []string) []any {
	cells := make([]any, len(row))
	for i, c := range row {
		cells[i] = c
	}
	return cells
}
