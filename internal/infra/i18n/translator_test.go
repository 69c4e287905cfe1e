//go:build !integration

package i18n

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("greeting: hello\nwelcome_user: hello %s"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got := translator.T("greeting"); got != "hello" {
			t.Errorf("wanted 'hello', got '%s'", got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted 'nonexistent_key', got '%s'", got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got := translator.T("welcome_user", "Ada"); got != "hello Ada" {
			t.Errorf("wanted 'hello Ada', got '%s'", got)
		}
	})
}

func TestNewTranslator_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/de.yaml": &fstest.MapFile{Data: []byte("menu.help: Hilfe\n")},
	}
	tr, err := NewTranslator(fsys, "de")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	if tr.T("menu.help") != "Hilfe" {
		t.Errorf("unexpected translation %q", tr.T("menu.help"))
	}
	if _, err := NewTranslator(fsys, "fr"); err == nil {
		t.Error("expected an error for a missing locale")
	}
}

func TestEmbeddedCatalogue(t *testing.T) {
	tr := MustDefault()
	verbatim := map[string]string{
		"prompt.order_id":        "Please enter your Order#.",
		"prompt.account_id":      "Please enter your Company# to register.",
		"registration.missing":   "No Company# found. Please register first.",
		"menu.prompt":            "What would you like to do?",
		"descriptors.no_match":   "No descriptors matched '%s'.",
		"blacklist.filter.email": "Email",
	}
	for key, want := range verbatim {
		if got := tr.T(key); got != want {
			t.Errorf("%s: wanted %q, got %q", key, want, got)
		}
	}
	if help := tr.T("help", "StatusPaymentBot"); !strings.HasPrefix(help, "*Help Guide*") || !strings.Contains(help, "@StatusPaymentBot") {
		t.Errorf("unexpected help text %q", help)
	}
}
