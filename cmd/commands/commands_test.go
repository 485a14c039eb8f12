package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dohr-michael/quickprompt/internal/prompt"
)

func TestParseStep(t *testing.T) {
	tests := []struct {
		arg     string
		wantErr bool
	}{
		{"click", false},
		{"send", false},
		{"ok", false},
		{"cancel", false},
		{"close-menu", false},
		{"view", false},
		{"settle", false},
		{"choose=summarize", false},
		{"choose=Make Bulleted List", false},
		{"wait=200ms", false},
		{"choose=nope", true},
		{"wait=soon", true},
		{"dance", true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			s, err := parseStep(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tt.arg)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s.run == nil || s.name != tt.arg {
				t.Fatalf("unexpected step %+v", s)
			}
		})
	}
}

func TestPrintView(t *testing.T) {
	var buf bytes.Buffer
	printView(&buf, "click", prompt.View{
		State:    prompt.StateRevise,
		Language: "en",
		Validity: prompt.ValidityNone,
		Output:   "Hello world ",
	})
	out := buf.String()
	for _, want := range []string{"state=revise", "lang=en", "topic=-", `"Hello world "`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printView(&buf, "open", prompt.View{State: prompt.StateGenerate})
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("empty output should print a single line, got %q", buf.String())
	}
}

func TestRootCommandTexts(t *testing.T) {
	dir := t.TempDir()
	data := `{
		"predefinedTexts": {"en": {"x": "Hello world"}},
		"predefinedTextsBulleted": {"en": {"x": "- Hello"}},
		"predefinedTextsExpanded": {"en": {"x": "Hello to the world"}},
		"predefinedTextsRephrased": {"en": {"x": "Greetings"}},
		"predefinedTextsSimplified": {"en": {"x": "Hi"}},
		"predefinedTextsSummarized": {"en": {"x": "Hello"}}
	}`
	file := filepath.Join(dir, "texts.json")
	if err := os.WriteFile(file, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "missing.jsonc")

	root := NewRootCommand()
	if err := root.Run(t.Context(), []string{"quickprompt", "-c", cfg, "texts", "check", "--file", file}); err != nil {
		t.Fatalf("check: %v", err)
	}

	root = NewRootCommand()
	if err := root.Run(t.Context(), []string{"quickprompt", "-c", cfg, "texts", "keys", "--lang", "de", "--file", file}); err == nil {
		t.Fatal("expected an error for a language without texts")
	}
}
