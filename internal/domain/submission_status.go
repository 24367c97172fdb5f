package domain

type SubmissionStatus string

const (
	SubmissionStatusIdle       SubmissionStatus = "IDLE"
	SubmissionStatusSubmitting SubmissionStatus = "SUBMITTING"
)

func (s SubmissionStatus) InFlight() bool {
	return s == SubmissionStatusSubmitting
}

// String representation (for logging)
func (s SubmissionStatus) String() string {
	return string(s)
}
