package domain

// OutcomeStatus reported to the host when a token is created.
const OutcomeStatusSuccess = "success"

// TokenOutcome is the terminal result of one capture attempt. A session
// resolves to at most one successful outcome; failures may repeat while the
// user retries.
type TokenOutcome struct {
	Success bool
	Status  string
	Reason  string
}

func SuccessOutcome() TokenOutcome {
	return TokenOutcome{Success: true, Status: OutcomeStatusSuccess}
}

func FailureOutcome(reason string) TokenOutcome {
	return TokenOutcome{Success: false, Reason: reason}
}
