package i18n

import (
	"strings"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_type", nil); msg == "cannot resolve schema type" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_EmbedsPath(t *testing.T) {
	msg := T("unresolved_ref", map[string]string{"path": "#/properties/id"})
	if !strings.HasSuffix(msg, "(#/properties/id)") {
		t.Fatalf("expected path suffix, got %q", msg)
	}
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if msg := T("no_such_code", map[string]string{"path": "#"}); msg != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return strings.ToUpper(code) }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if msg := T("cyclic_ref", nil); msg != "CYCLIC_REF" {
		t.Fatalf("custom translator not used: %q", msg)
	}
	SetTranslator(nil)
	if msg := T("cyclic_ref", nil); msg != "cyclic reference" {
		t.Fatalf("expected reset to en, got %q", msg)
	}
}
