package texts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const sampleJSON = `{
	"predefinedTexts": {"en": {"x": "Hello world"}},
	"predefinedTextsBulleted": {"en": {"x": "- Hello\n- world"}},
	"predefinedTextsExpanded": {"en": {"x": "Hello to the whole world"}},
	"predefinedTextsRephrased": {"en": {"x": "Greetings, world"}},
	"predefinedTextsSimplified": {"en": {"x": "Hi world"}},
	"predefinedTextsSummarized": {"en": {"x": "Hello"}}
}`

const sampleYAML = `
predefinedTexts:
  en:
    x: Hello world
predefinedTextsBulleted:
  en:
    x: "- Hello"
predefinedTextsExpanded:
  en:
    x: Hello to the whole world
predefinedTextsRephrased:
  en:
    x: Greetings, world
predefinedTextsSimplified:
  en:
    x: Hi world
predefinedTextsSummarized:
  en:
    x: Hello
`

func TestFetchSingleRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	d, err := Load(context.Background(), Source{URL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("expected one request, got %d", hits.Load())
	}
	if err := d.Validate(); err != nil {
		t.Errorf("sample should validate: %v", err)
	}
	text, err := d.Text(VariantRephrased, LanguageEnglish, "x")
	if err != nil || text != "Greetings, world" {
		t.Errorf("unexpected rephrased text %q (%v)", text, err)
	}
}

func TestFetchNoRetryOnFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error for 500 response")
	}
	if hits.Load() != 1 {
		t.Errorf("expected exactly one attempt, got %d", hits.Load())
	}
}

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "texts.json")
	yamlPath := filepath.Join(dir, "texts.yaml")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, yamlPath} {
		d, err := Load(context.Background(), Source{File: path, URL: "http://127.0.0.1:1/unused"})
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		text, err := d.Text(VariantBase, LanguageEnglish, "x")
		if err != nil || text != "Hello world" {
			t.Errorf("%s: unexpected base text %q (%v)", path, text, err)
		}
		if err := d.Validate(); err != nil {
			t.Errorf("%s: %v", path, err)
		}
	}
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	if _, err := Decode([]byte("{}"), "toml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
