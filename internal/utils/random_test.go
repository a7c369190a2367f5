package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp := GenerateRandomOTP()
		assert.Len(t, otp, 6)
		assert.Regexp(t, `^\d{6}$`, otp)
	}
}

func TestGenerateRandomSubset(t *testing.T) {
	src := []string{"a", "b", "c", "d"}
	for i := 0; i < 50; i++ {
		subset := GenerateRandomSubset(src)
		require.NotEmpty(t, subset)
		assert.Subset(t, src, subset)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, src, "source must not be reordered")
	assert.Empty(t, GenerateRandomSubset(nil))
}

func TestGenerateRandomSubmission(t *testing.T) {
	activity := &domain.Activity{
		ID:     7,
		Season: "summer-2025",
		Locations: []domain.ActivityLocation{
			{Location: "Main Pool", Slots: []string{"Jun 14 9AM", "Jun 14 10AM"}},
			{Location: "West", Slots: []string{"Jun 15 9AM"}},
		},
	}

	for i := 0; i < 20; i++ {
		s := GenerateRandomSubmission(activity, "example.com")
		assert.Equal(t, "summer-2025", s.Season)
		assert.Equal(t, int64(7), s.ActivityID)
		assert.Equal(t, s.Key().SubmissionID(), s.ID)
		assert.Contains(t, s.ParentEmail, "@example.com")
		for _, pref := range s.Preferences {
			assert.NotEmpty(t, pref.Selections)
		}
	}
}
