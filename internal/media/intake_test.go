package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Kind
		wantErr  bool
	}{
		{"mp4", "feeding.mp4", KindMP4, false},
		{"avi", "tank_cam.avi", KindAVI, false},
		{"mov", "clip.mov", KindMOV, false},
		{"uppercase extension", "CLIP.MOV", KindMOV, false},
		{"mixed case", "Feeding.Mp4", KindMP4, false},
		{"text file", "notes.txt", "", true},
		{"image", "fish.png", "", true},
		{"no extension", "video", "", true},
		{"empty name", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := KindFromFilename(tt.filename)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestSelectFileAcceptsAndNotifiesOnce(t *testing.T) {
	var notified []Upload
	intake := NewIntake(100<<20, func(up Upload) {
		notified = append(notified, up)
	})

	up, err := intake.SelectFile("feeding.mp4", 2048)
	require.NoError(t, err)
	assert.Equal(t, Upload{Name: "feeding.mp4", SizeBytes: 2048, Kind: KindMP4}, up)

	held, ok := intake.Held()
	require.True(t, ok)
	assert.Equal(t, up, held)
	assert.Equal(t, []Upload{up}, notified)
}

func TestSelectFileReplacesPreviousSelection(t *testing.T) {
	intake := NewIntake(100<<20, nil)

	_, err := intake.SelectFile("first.mp4", 100)
	require.NoError(t, err)

	second, err := intake.SelectFile("second.avi", 200)
	require.NoError(t, err)

	held, ok := intake.Held()
	require.True(t, ok)
	assert.Equal(t, second, held)
}

func TestSelectFileRejectionLeavesHeldUnchanged(t *testing.T) {
	var notifications int
	intake := NewIntake(100<<20, func(Upload) { notifications++ })

	first, err := intake.SelectFile("first.mp4", 100)
	require.NoError(t, err)
	require.Equal(t, 1, notifications)

	_, err = intake.SelectFile("report.txt", 50)
	require.ErrorIs(t, err, ErrInvalidFormat)

	held, ok := intake.Held()
	require.True(t, ok)
	assert.Equal(t, first, held)
	assert.Equal(t, 1, notifications, "rejected selection must not notify")
}

func TestSelectFileRejectionWithNothingHeld(t *testing.T) {
	intake := NewIntake(100<<20, nil)

	_, err := intake.SelectFile("report.txt", 50)
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, ok := intake.Held()
	assert.False(t, ok)
}

func TestSelectDemoFile(t *testing.T) {
	var notifications int
	intake := NewIntake(100<<20, func(Upload) { notifications++ })

	up := intake.SelectDemoFile()
	assert.Equal(t, Upload{Name: DemoName, SizeBytes: 0, Kind: DemoKind}, up)
	assert.Equal(t, 1, notifications)

	// Always succeeds regardless of prior state.
	_, err := intake.SelectFile("clip.mov", 400)
	require.NoError(t, err)
	again := intake.SelectDemoFile()
	assert.Equal(t, up, again)

	held, ok := intake.Held()
	require.True(t, ok)
	assert.Equal(t, up, held)
	assert.Equal(t, 3, notifications)
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{512, "512.0 B"},
		{2048, "2.0 KB"},
		{104857600, "100.0 MB"},
		{5 << 30, "5.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.bytes))
	}
}
