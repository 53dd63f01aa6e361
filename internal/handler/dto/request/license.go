package request

import "rental-engine/internal/domain/license"

// LicenseResolutionRequest is posted by the verification provider once a
// submitted license has been checked.
type LicenseResolutionRequest struct {
	IsValid    bool     `json:"is_valid"`
	Confidence int      `json:"confidence"`
	TimedOut   bool     `json:"timed_out"`
	Concerns   []string `json:"concerns"`
}

func (r LicenseResolutionRequest) ToDomain() license.ReviewResult {
	return license.ReviewResult{
		IsValid:    r.IsValid,
		Confidence: r.Confidence,
		TimedOut:   r.TimedOut,
		Concerns:   r.Concerns,
	}
}
