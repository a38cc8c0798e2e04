package notify

type Kind string

const (
	KindConfirmationToSubmitter Kind = "confirmation_to_submitter"
	KindNotifyManagers          Kind = "notify_managers"
	KindReviewOutcome           Kind = "review_outcome"
)

// Event is what use cases publish. Subject is optional; the renderer picks one per Kind.
type Event struct {
	Kind    Kind
	To      []string
	Subject string
	Data    any
}

// SubmissionData backs both creation events.
type SubmissionData struct {
	FullName      string
	Email         string
	ActivityName  string
	Code          string
	SecurityCode  string
	AdminPanelURL string
}

type DocumentOutcome struct {
	Name string
	Pass bool
}

type OutcomeData struct {
	FullName  string
	Code      string
	Accepted  bool
	Comments  string
	Documents []DocumentOutcome
}

// Message is a rendered email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}
