//go:build unit

package license_test

import (
	"testing"
	"time"

	"rental-engine/internal/domain/license"
	"rental-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		result license.ReviewResult
		want   license.Status
	}{
		{name: "有効かつ高信頼度", result: license.ReviewResult{IsValid: true, Confidence: 85}, want: license.StatusVerified},
		{name: "承認閾値ちょうど", result: license.ReviewResult{IsValid: true, Confidence: 70}, want: license.StatusVerified},
		{name: "高信頼度だが無効判定", result: license.ReviewResult{IsValid: false, Confidence: 90}, want: license.StatusPending},
		{name: "中程度の信頼度", result: license.ReviewResult{IsValid: true, Confidence: 55}, want: license.StatusPending},
		{name: "低信頼度", result: license.ReviewResult{IsValid: true, Confidence: 30}, want: license.StatusPendingManualReview},
		{name: "極めて低い信頼度", result: license.ReviewResult{IsValid: true, Confidence: 29}, want: license.StatusRejected},
		{name: "審査がタイムアウト", result: license.ReviewResult{TimedOut: true}, want: license.StatusPendingManualReview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, license.Classify(tc.result))
		})
	}
}

func TestRequirementFor(t *testing.T) {
	renter := uuid.New()
	at := func(days int, status license.Status) license.License {
		return license.License{
			ID:          uuid.New(),
			RenterID:    renter,
			Status:      status,
			SubmittedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days),
		}
	}

	assert.Equal(t, license.RequireUpload, license.RequirementFor(nil))
	assert.Equal(t, license.Waived, license.RequirementFor([]license.License{at(1, license.StatusVerified)}))
	assert.Equal(t, license.AwaitingVerification, license.RequirementFor([]license.License{at(1, license.StatusPendingManualReview)}))

	t.Run("最新の却下が古い承認済みより優先される", func(t *testing.T) {
		history := []license.License{at(5, license.StatusRejected), at(1, license.StatusVerified)}
		assert.Equal(t, license.RequireUpload, license.RequirementFor(history))
	})

	t.Run("履歴の並び順に依存しない", func(t *testing.T) {
		history := []license.License{at(1, license.StatusRejected), at(5, license.StatusVerified)}
		assert.Equal(t, license.Waived, license.RequirementFor(history))
	})
}

func TestNewSubmission(t *testing.T) {
	s, err := license.NewSubmission(uuid.New(), " 12345678 ", "dk", "front.jpg", "back.jpg")
	require.NoError(t, err)
	assert.Equal(t, "12345678", s.Number)
	assert.Equal(t, "DK", s.Country)

	_, err = license.NewSubmission(uuid.New(), "", "", "", "")
	require.ErrorIs(t, err, license.ErrInvalidLicense)
	assert.Len(t, errs.FieldsOf(err), 4)
}
