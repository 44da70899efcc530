package email

import (
	"fmt"
	"strings"
)

const defaultDigestSubject = "Your weekly availability"

type Message struct {
	Subject string
	Body    string
}

type DigestDetails struct {
	MentorName string
	Subject    string
	// Summary is the one-line compact rendering, e.g. "3 slots · Mon, Wed".
	Summary string
	// Schedule is the full plain-text rendering of the week.
	Schedule  string
	ManageURL string
}

func BuildDigestEmail(details DigestDetails) Message {
	name := strings.TrimSpace(details.MentorName)
	if name == "" {
		name = "there"
	}
	subject := strings.TrimSpace(details.Subject)
	if subject == "" {
		subject = defaultDigestSubject
	}
	summary := strings.TrimSpace(details.Summary)
	if summary != "" {
		subject = fmt.Sprintf("%s - %s", subject, summary)
	}

	lines := []string{
		fmt.Sprintf("Hi %s,", name),
		"",
		"Here is the availability mentees will see this week.",
		"",
		strings.TrimRight(details.Schedule, "\n"),
	}
	if manageURL := strings.TrimSpace(details.ManageURL); manageURL != "" {
		lines = append(lines, "", fmt.Sprintf("Update your schedule: %s", manageURL))
	}

	return Message{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
	}
}
