package i18n

import "testing"

func TestTranslator_DefaultAndFrench(t *testing.T) {
	// default is en
	if msg := T("parse_error", nil); msg != "malformed JSON value" {
		t.Fatalf("expected the english message, got %q", msg)
	}

	SetLanguage("fr")
	if msg := T("parse_error", nil); msg != "valeur JSON mal formée" {
		t.Fatalf("expected french message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_Placeholders(t *testing.T) {
	got := T("unresolved", map[string]string{"name": "users"})
	if got != "users could not be resolved" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("unknown code should echo, got %q", got)
	}
}

func TestTranslator_UnknownLanguageFallsBack(t *testing.T) {
	SetLanguage("xx")
	defer SetLanguage("en")
	if msg := T("empty_args", nil); msg != "operation called without arguments" {
		t.Fatalf("expected english fallback, got %q", msg)
	}
}
