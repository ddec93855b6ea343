package models

// Settings blobs are stored as free-form JSON objects so that keys written by
// newer clients survive a load/save cycle on an older one. Defaults are merged
// in for missing keys only; present values always win.

// DefaultSettings returns the compiled-in application settings.
func DefaultSettings() map[string]any {
	return map[string]any{
		"general": map[string]any{
			"clubName":   "Aeroclub",
			"locale":     "en-US",
			"timezone":   "UTC",
			"dateFormat": "2006-01-02",
		},
		"appearance": map[string]any{
			"theme":       "light",
			"compactMode": false,
		},
		"notifications": map[string]any{
			"emailEnabled":    true,
			"overdueReminder": true,
			"bookingReminder": true,
		},
		"billing": map[string]any{
			"currency":       "EUR",
			"defaultDueDays": float64(30),
			"taxRate":        float64(0),
		},
		"scheduling": map[string]any{
			"slotMinutes":    float64(60),
			"openingHour":    float64(8),
			"closingHour":    float64(20),
			"allowWeekends":  true,
			"maxDailyHours":  float64(8),
			"minRestMinutes": float64(30),
		},
		"safety": map[string]any{
			"requireMedicalCheck": true,
			"maxCrosswindKts":     float64(15),
		},
		"data": map[string]any{
			"exportFormat":  "csv",
			"retentionDays": float64(365),
		},
		"about": map[string]any{
			"supportEmail": "support@aeroclub.example",
		},
	}
}

// DefaultUserPreferences returns the compiled-in per-user preferences.
func DefaultUserPreferences() map[string]any {
	return map[string]any{
		"dashboard": map[string]any{
			"showRecentActivity": true,
			"defaultPage":        "dashboard",
		},
		"tables": map[string]any{
			"rowsPerPage": float64(25),
			"denseRows":   false,
		},
		"finance": map[string]any{
			"defaultTab": "overview",
		},
	}
}

// MergeDefaults back-fills missing keys of stored with values from defaults,
// recursing into nested objects. Keys present in stored are never overwritten
// and keys unknown to defaults are preserved as-is.
func MergeDefaults(stored, defaults map[string]any) map[string]any {
	if stored == nil {
		stored = make(map[string]any, len(defaults))
	}
	for key, def := range defaults {
		cur, ok := stored[key]
		if !ok {
			stored[key] = def
			continue
		}
		curMap, curIsMap := cur.(map[string]any)
		defMap, defIsMap := def.(map[string]any)
		if curIsMap && defIsMap {
			stored[key] = MergeDefaults(curMap, defMap)
		}
	}
	return stored
}
