package objectkey

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForOriginal(t *testing.T) {
	fileID := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	at := time.Date(2024, 3, 15, 22, 30, 0, 0, time.UTC)

	key := ForOriginal("user-1", fileID, "holiday photo.jpg", at)
	assert.Equal(t, "uploads/user-1/2024-03-15/0f8fad5b-d9cb-469f-a165-70867728950e_holiday_photo.jpg", key)
}

func TestForOriginalSanitizesFilename(t *testing.T) {
	fileID := uuid.New()
	at := time.Now()

	key := ForOriginal("owner", fileID, `../evil/pa:th?.png`, at)
	assert.NotContains(t, key[len("uploads/owner/2006-01-02/"):], `\`)
	assert.Equal(t, fmt.Sprintf("uploads/owner/%s/%s_.._evil_pa_th_.png", at.UTC().Format("2006-01-02"), fileID), key)
}

func TestForDerivative(t *testing.T) {
	fileID := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	primary := "uploads/u/2024-03-15/" + fileID.String() + "_clip.mp4"

	poster, err := ForDerivative(primary, RolePoster)
	require.NoError(t, err)
	assert.Equal(t, "uploads/u/2024-03-15/poster-0f8fad5b-d9cb-469f-a165-70867728950e.jpg", poster)

	preview, err := ForDerivative(primary, RolePreview)
	require.NoError(t, err)
	assert.Equal(t, "uploads/u/2024-03-15/preview-0f8fad5b-d9cb-469f-a165-70867728950e.jpg", preview)
}

func TestForDerivativeRejectsMalformedKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"no token separator", "uploads/u/2024-03-15/plainfile.jpg"},
		{"token is not a uuid", "uploads/u/2024-03-15/notauuid_file.jpg"},
		{"empty token", "uploads/u/2024-03-15/_file.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ForDerivative(tt.key, RolePreview)
			assert.Error(t, err)
		})
	}
}

// Regression for the delimiter hazard: the file id token must survive
// filenames that themselves contain the token separator or uuid-style
// dashes, so delete-time reconstruction targets exactly the key written at
// upload time.
func TestReconstructRoundTrip(t *testing.T) {
	filenames := []string{
		"simple.png",
		"name_with_underscores.png",
		"uuid-like-0f8fad5b-d9cb-469f-a165-70867728950e.png",
		"spaces and_mixed-separators.png",
	}

	for _, filename := range filenames {
		t.Run(filename, func(t *testing.T) {
			fileID := uuid.New()
			primary := ForOriginal("owner", fileID, filename, time.Now())

			writtenPreview, err := ForDerivative(primary, RolePreview)
			require.NoError(t, err)

			keys := Reconstruct(primary, RolePreview)
			assert.Contains(t, keys, primary)
			assert.Contains(t, keys, writtenPreview)
			assert.Len(t, keys, 2)
		})
	}
}

func TestReconstructWithoutRole(t *testing.T) {
	primary := ForOriginal("owner", uuid.New(), "track.mp3", time.Now())

	keys := Reconstruct(primary, "")
	assert.Equal(t, []string{primary}, keys)
}

func TestReconstructToleratesForeignKeys(t *testing.T) {
	// A key that predates the scheme still gets its primary deleted.
	keys := Reconstruct("legacy/some-old-key.bin", RolePreview)
	assert.Equal(t, []string{"legacy/some-old-key.bin"}, keys)
}
