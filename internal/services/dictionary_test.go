package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vocx/internal/shared"
	th "github.com/desertthunder/vocx/internal/testing"
)

func newDictionaryServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDictionaryService(t *testing.T) {
	t.Run("Lookup", func(t *testing.T) {
		t.Run("Full Entry", func(t *testing.T) {
			body := `[{
				"word": "ebullient",
				"phonetics": [{"text": "/ɪˈbʊljənt/"}],
				"meanings": [
					{
						"partOfSpeech": "adjective",
						"definitions": [
							{"definition": "Cheerful and full of energy.", "example": "She sounded ebullient.", "synonyms": ["exuberant", "buoyant"]},
							{"definition": "Boiling.", "synonyms": []}
						]
					},
					{"partOfSpeech": "noun", "definitions": [{"definition": "Ignored."}]}
				]
			}]`

			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Write([]byte(body))
			}))
			defer srv.Close()

			d := NewDictionaryService(srv.URL, nil, nil)
			rec, err := d.Lookup(context.Background(), "ebullient")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if gotPath != "/ebullient" {
				t.Errorf("request path = %s, want /ebullient", gotPath)
			}
			if rec.Word != "ebullient" {
				t.Errorf("Word = %q", rec.Word)
			}
			if rec.PartOfSpeech != "adjective" {
				t.Errorf("PartOfSpeech = %q", rec.PartOfSpeech)
			}
			if rec.Meaning != "Cheerful and full of energy." {
				t.Errorf("Meaning = %q", rec.Meaning)
			}
			if rec.Example != "She sounded ebullient." {
				t.Errorf("Example = %q", rec.Example)
			}
			if rec.Synonyms != "exuberant, buoyant" {
				t.Errorf("Synonyms = %q", rec.Synonyms)
			}
		})

		t.Run("Unexpected Shape In Unused Fields", func(t *testing.T) {
			srv := newDictionaryServer(t, http.StatusOK, `[{
				"word": 42,
				"phonetic": ["not", "a", "string"],
				"phonetics": "not a list",
				"sourceUrls": {"odd": true},
				"meanings": [{"partOfSpeech": "noun", "synonyms": "odd", "definitions": [{"definition": "A fruit."}]}]
			}]`)

			rec, err := NewDictionaryService(srv.URL, nil, nil).Lookup(context.Background(), "apple")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Word != "apple" || rec.PartOfSpeech != "noun" || rec.Meaning != "A fruit." {
				t.Errorf("unexpected record: %+v", rec)
			}
		})

		t.Run("Missing Example And Synonyms", func(t *testing.T) {
			srv := newDictionaryServer(t, http.StatusOK, `[{"word":"apple","meanings":[{"partOfSpeech":"noun","definitions":[{"definition":"A fruit."}]}]}]`)

			rec, err := NewDictionaryService(srv.URL, nil, nil).Lookup(context.Background(), "apple")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Example != "" || rec.Synonyms != "" {
				t.Errorf("expected empty example and synonyms, got %q and %q", rec.Example, rec.Synonyms)
			}
			if rec.Meaning != "A fruit." {
				t.Errorf("Meaning = %q", rec.Meaning)
			}
		})

		t.Run("Meaning Without Definitions", func(t *testing.T) {
			srv := newDictionaryServer(t, http.StatusOK, `[{"word":"apple","meanings":[{"partOfSpeech":"noun","definitions":[]}]}]`)

			rec, err := NewDictionaryService(srv.URL, nil, nil).Lookup(context.Background(), "apple")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.PartOfSpeech != "noun" || rec.Meaning != "" || rec.Example != "" || rec.Synonyms != "" {
				t.Errorf("unexpected record %+v", rec)
			}
		})

		notFound := []struct {
			name   string
			status int
			body   string
		}{
			{name: "Not Found Status", status: http.StatusNotFound, body: `{"title":"No Definitions Found"}`},
			{name: "Server Error", status: http.StatusInternalServerError, body: ``},
			{name: "Malformed JSON", status: http.StatusOK, body: `[{"word":`},
			{name: "Object Instead Of Array", status: http.StatusOK, body: `{"word":"apple"}`},
			{name: "Empty Array", status: http.StatusOK, body: `[]`},
			{name: "No Meanings", status: http.StatusOK, body: `[{"word":"apple","meanings":[]}]`},
		}

		for _, tt := range notFound {
			t.Run(tt.name, func(t *testing.T) {
				srv := newDictionaryServer(t, tt.status, tt.body)

				rec, err := NewDictionaryService(srv.URL, nil, nil).Lookup(context.Background(), "apple")
				if rec != nil {
					t.Errorf("expected no record, got %+v", rec)
				}
				if !errors.Is(err, shared.ErrWordNotFound) {
					t.Errorf("expected ErrWordNotFound, got %v", err)
				}
			})
		}

		t.Run("Escapes Word In Path", func(t *testing.T) {
			var rawPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				rawPath = r.URL.EscapedPath()
				w.WriteHeader(http.StatusNotFound)
			}))
			defer srv.Close()

			NewDictionaryService(srv.URL+"/", nil, nil).Lookup(context.Background(), "résumé")
			if !strings.HasPrefix(rawPath, "/r%C3%A9sum%C3%A9") {
				t.Errorf("expected escaped path, got %s", rawPath)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := &http.Client{Transport: th.NewMockRoundTripper(nil, errors.New("connection refused"))}

			_, err := NewDictionaryService("http://dictionary.invalid", client, nil).Lookup(context.Background(), "apple")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if errors.Is(err, shared.ErrWordNotFound) {
				t.Error("transport failure should not be reported as not found")
			}
		})

		t.Run("Unreadable Body", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &th.FCloser{}, Header: make(http.Header)}
			client := &http.Client{Transport: th.NewMockRoundTripper(resp, nil)}

			_, err := NewDictionaryService("http://dictionary.invalid", client, nil).Lookup(context.Background(), "apple")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			}))
			defer srv.Close()

			client := &http.Client{Timeout: 20 * time.Millisecond}
			_, err := NewDictionaryService(srv.URL, client, nil).Lookup(context.Background(), "apple")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest on timeout, got %v", err)
			}
		})
	})

	t.Run("Defaults", func(t *testing.T) {
		d := NewDictionaryService("", nil, nil)
		if d.baseURL != DefaultDictionaryURL {
			t.Errorf("baseURL = %s", d.baseURL)
		}
		if d.httpClient.Timeout != DefaultDictionaryTimeout {
			t.Errorf("timeout = %v", d.httpClient.Timeout)
		}
	})
}

func TestParseDictionaryResponse(t *testing.T) {
	rec, err := parseDictionaryResponse("run", []byte(`[{"meanings":[{"partOfSpeech":"verb","definitions":[{"definition":"Move fast.","synonyms":["sprint"]}]}]}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Word != "run" || rec.Synonyms != "sprint" {
		t.Errorf("unexpected record %+v", rec)
	}

	if _, err := parseDictionaryResponse("run", []byte(`null`)); err == nil {
		t.Error("expected error for null body")
	}
}
