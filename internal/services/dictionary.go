// FreeDictionary implementation of [Dictionary]
//
// Response shape documented at https://dictionaryapi.dev/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/shared"
)

const (
	DefaultDictionaryURL     = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultDictionaryTimeout = 10 * time.Second
)

// dictionaryEntry is one element of the FreeDictionary response array (one per etymology).
// Only the fields a record is built from are decoded; anything else in the payload is ignored.
type dictionaryEntry struct {
	Meanings []dictionaryMeaning `json:"meanings"`
}

type dictionaryMeaning struct {
	PartOfSpeech string                 `json:"partOfSpeech"`
	Definitions  []dictionaryDefinition `json:"definitions"`
}

type dictionaryDefinition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   []string `json:"synonyms"`
}

// DictionaryService looks words up in the FreeDictionary API.
type DictionaryService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewDictionaryService creates a dictionary client. An empty baseURL selects [DefaultDictionaryURL];
// a nil client gets a [DefaultDictionaryTimeout] timeout.
func NewDictionaryService(baseURL string, client *http.Client, logger *log.Logger) *DictionaryService {
	if baseURL == "" {
		baseURL = DefaultDictionaryURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultDictionaryTimeout}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &DictionaryService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     shared.WithLogger(logger, "component", "dictionary"),
	}
}

// Lookup fetches word and maps the first meaning of the first entry to a [models.Record].
//
// The first definition supplies the meaning, example and synonyms; a meaning without definitions yields empty fields.
func (d *DictionaryService) Lookup(ctx context.Context, word string) (*models.Record, error) {
	reqURL := d.baseURL + "/" + url.PathEscape(word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Warn("dictionary request failed", "word", word, "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Warn("dictionary returned non-200 status", "word", word, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", shared.ErrWordNotFound, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		d.logger.Warn("failed to read dictionary response", "word", word, "error", err)
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	record, err := parseDictionaryResponse(word, body)
	if err != nil {
		d.logger.Warn("failed to parse dictionary response", "word", word, "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrWordNotFound, err)
	}

	d.logger.Debug("dictionary lookup", "word", word, "pos", record.PartOfSpeech)
	return record, nil
}

// parseDictionaryResponse extracts a record from a raw response body.
func parseDictionaryResponse(word string, body []byte) (*models.Record, error) {
	var entries []dictionaryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	entry := entries[0]
	if len(entry.Meanings) == 0 {
		return nil, fmt.Errorf("entry has no meanings")
	}

	meaning := entry.Meanings[0]
	record := &models.Record{
		Word:         word,
		PartOfSpeech: meaning.PartOfSpeech,
	}

	if len(meaning.Definitions) > 0 {
		def := meaning.Definitions[0]
		record.Meaning = def.Definition
		record.Example = def.Example
		record.Synonyms = strings.Join(def.Synonyms, ", ")
	}

	return record, nil
}
