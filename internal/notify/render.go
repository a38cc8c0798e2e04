package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

var templates = template.Must(template.New("notify").Parse(`
{{define "confirmation_to_submitter"}}<p>Hello {{.FullName}},</p>
<p>Your proposal for <b>{{.ActivityName}}</b> was received.</p>
<p>Proposal code: <b>{{.Code}}</b><br>Security code: <b>{{.SecurityCode}}</b></p>
<p>Keep both codes to check the status of your proposal.</p>{{end}}

{{define "notify_managers"}}<p>A new proposal was submitted for <b>{{.ActivityName}}</b>.</p>
<p>Submitter: {{.FullName}} ({{.Email}})<br>Code: <b>{{.Code}}</b></p>
<p><a href="{{.AdminPanelURL}}">Open the admin panel</a></p>{{end}}

{{define "review_outcome"}}<p>Hello {{.FullName}},</p>
<p>Your proposal <b>{{.Code}}</b> was {{if .Accepted}}approved{{else}}rejected{{end}}.</p>
{{with .Comments}}<p>Comments: {{.}}</p>{{end}}
{{if .Documents}}<table border="1" cellpadding="4">
<tr><th>Document</th><th>Result</th></tr>
{{range .Documents}}<tr><td>{{.Name}}</td><td>{{if .Pass}}Passed{{else}}Failed{{end}}</td></tr>
{{end}}</table>{{end}}{{end}}
`))

var defaultSubjects = map[Kind]string{
	KindConfirmationToSubmitter: "Your proposal was received",
	KindNotifyManagers:          "New proposal submitted",
	KindReviewOutcome:           "Your proposal was reviewed",
}

// Render turns an event into an email. Field values are HTML-escaped.
func Render(ev Event) (Message, error) {
	subject := ev.Subject
	if subject == "" {
		s, ok := defaultSubjects[ev.Kind]
		if !ok {
			return Message{}, fmt.Errorf("notify: unknown event kind %q", ev.Kind)
		}
		subject = s
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(ev.Kind), ev.Data); err != nil {
		return Message{}, fmt.Errorf("notify: render %s: %w", ev.Kind, err)
	}
	return Message{To: ev.To, Subject: subject, HTML: buf.String()}, nil
}
