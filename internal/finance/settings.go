package finance

// Settings is the per-scope singleton holding the sync watermarks.
type Settings struct {
	LastPullAt    int64  `json:"lastPullAt,omitempty"`
	LastPushAt    int64  `json:"lastPushAt,omitempty"`
	LastSyncError string `json:"lastSyncError,omitempty"`
}

// SettingsPatch lists the settings fields a sync cycle wants changed. Nil
// fields are left alone; a non-nil empty LastSyncError clears the error.
type SettingsPatch struct {
	LastPullAt    *int64  `json:"lastPullAt,omitempty"`
	LastPushAt    *int64  `json:"lastPushAt,omitempty"`
	LastSyncError *string `json:"lastSyncError,omitempty"`
}

// Apply returns s with the patch applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.LastPullAt != nil {
		s.LastPullAt = *p.LastPullAt
	}

	if p.LastPushAt != nil {
		s.LastPushAt = *p.LastPushAt
	}

	if p.LastSyncError != nil {
		s.LastSyncError = *p.LastSyncError
	}

	return s
}
