package models

import "testing"

func TestMergeDefaultsBackFillsMissingKeys(t *testing.T) {
	stored := map[string]any{
		"general": map[string]any{"clubName": "Old Club"},
	}

	merged := MergeDefaults(stored, DefaultSettings())

	general := merged["general"].(map[string]any)
	if general["clubName"] != "Old Club" {
		t.Errorf("stored value overwritten: %v", general["clubName"])
	}
	if general["locale"] != "en-US" {
		t.Errorf("nested key not back-filled: %v", general["locale"])
	}
	if _, ok := merged["billing"]; !ok {
		t.Error("missing section not back-filled")
	}
}

func TestMergeDefaultsPreservesUnknownKeys(t *testing.T) {
	stored := map[string]any{
		"experimental": map[string]any{"betaBanner": true},
		"general":      map[string]any{"customFlag": "yes"},
	}

	merged := MergeDefaults(stored, DefaultSettings())

	if exp, ok := merged["experimental"].(map[string]any); !ok || exp["betaBanner"] != true {
		t.Errorf("unknown section dropped: %v", merged["experimental"])
	}
	if merged["general"].(map[string]any)["customFlag"] != "yes" {
		t.Error("unknown nested key dropped")
	}
}

func TestMergeDefaultsTypeMismatchKeepsStored(t *testing.T) {
	// A scalar where the defaults expect an object must survive untouched.
	stored := map[string]any{"general": "not an object"}

	merged := MergeDefaults(stored, DefaultSettings())
	if merged["general"] != "not an object" {
		t.Errorf("stored scalar replaced: %v", merged["general"])
	}
}

func TestMergeDefaultsNilStored(t *testing.T) {
	merged := MergeDefaults(nil, DefaultUserPreferences())
	if merged["finance"].(map[string]any)["defaultTab"] != "overview" {
		t.Fatal("nil stored did not yield defaults")
	}
}
