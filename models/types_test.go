// ABOUTME: Tests for model helpers
// ABOUTME: Covers color key resolution and token expiry conversion
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestColorKeyOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		colorKey string
		kind     string
		want     string
	}{
		{"explicit color wins", "teal", KindMeeting, "teal"},
		{"meeting default", "", KindMeeting, "green"},
		{"release default", "", KindRelease, "violet"},
		{"task default", "", KindTask, "rose"},
		{"session default", "", KindSession, "blue"},
		{"promo default", "", KindPromo, "amber"},
		{"unknown kind falls back", "", "something-else", "slate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorKeyOrDefault(tt.colorKey, tt.kind))
		})
	}
}

func TestTokenRecordExpiry(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	rec := &TokenRecord{ExpiresAt: now.Unix()}
	assert.True(t, rec.Expiry().Equal(now))
}
