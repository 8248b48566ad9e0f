package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "valid date",
			input: "2099-01-01",
			want:  time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day",
			input: "2028-02-29",
			want:  time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty string", input: "", wantErr: true},
		{name: "wrong layout", input: "01/02/2026", wantErr: true},
		{name: "invalid day", input: "2026-02-30", wantErr: true},
		{name: "trailing garbage", input: "2026-01-01x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDate(tt.input, time.UTC)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %v, got %v", tt.want, got)
		})
	}
}

func TestParseDate_NilLocationUsesLocal(t *testing.T) {
	t.Parallel()

	got, err := ParseDate("2030-06-15", nil)

	require.NoError(t, err)
	assert.Equal(t, time.Local, got.Location())
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "2026-10-15", FormatDate(time.Date(2026, time.October, 15, 23, 59, 0, 0, time.UTC)))
}

func TestIsBeforeDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 15, 18, 30, 0, 0, time.UTC)

	assert.True(t, IsBeforeDay(time.Date(2026, time.October, 14, 23, 0, 0, 0, time.UTC), now))
	// 同日の0時は「前」ではない
	assert.False(t, IsBeforeDay(time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsBeforeDay(time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), now))
}
