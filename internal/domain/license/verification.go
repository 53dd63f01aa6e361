package license

// Thresholds applied to the confidence score of an automated review.
const (
	VerifiedConfidence     = 70
	PendingConfidence      = 50
	ManualReviewConfidence = 30
)

// ReviewResult is the outcome reported by the external document reviewer.
type ReviewResult struct {
	IsValid    bool
	Confidence int
	TimedOut   bool
	Concerns   []string
}

func Classify(r ReviewResult) Status {
	switch {
	case r.TimedOut:
		return StatusPendingManualReview
	case r.IsValid && r.Confidence >= VerifiedConfidence:
		return StatusVerified
	case r.Confidence >= PendingConfidence:
		return StatusPending
	case r.Confidence >= ManualReviewConfidence:
		return StatusPendingManualReview
	default:
		return StatusRejected
	}
}

// Requirement describes what the Documents step needs from the renter.
type Requirement int

const (
	// RequireUpload: no usable license on file, or the latest one was rejected.
	RequireUpload Requirement = iota
	// AwaitingVerification: a submission is under review; progress is allowed.
	AwaitingVerification
	// Waived: a verified license is on file.
	Waived
)

func (r Requirement) String() string {
	switch r {
	case Waived:
		return "waived"
	case AwaitingVerification:
		return "awaiting_verification"
	default:
		return "upload_required"
	}
}

// RequirementFor decides based on the latest submission only, so a rejection
// supersedes any older verified record.
func RequirementFor(history []License) Requirement {
	latest := Latest(history)
	if latest == nil {
		return RequireUpload
	}
	switch {
	case latest.Status == StatusVerified:
		return Waived
	case latest.Status.IsPending():
		return AwaitingVerification
	default:
		return RequireUpload
	}
}
