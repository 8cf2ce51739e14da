package services

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/stoupi/mmvd-sub000/models"
)

func appBaseURL() string {
	base := strings.TrimSpace(os.Getenv("APP_BASE_URL"))
	if base == "" {
		base = "http://localhost:3000"
	}
	return strings.TrimRight(base, "/")
}

// buildFormalEmailHTML wraps a message in the portal's formal email frame.
func buildFormalEmailHTML(subject, recipientName, bodyHTML string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "colleague"
	}
	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, Helvetica, sans-serif; color: #1f2933; line-height: 1.6;">
  <h2 style="color: #14532d;">%s</h2>
  <p>%s</p>
  %s
  <p style="margin-top: 24px;">Kind regards,<br/>The MMVD Ancillary Study Portal</p>
  <hr style="border: none; border-top: 1px solid #d1d5db;"/>
  <p style="font-size: 12px; color: #6b7280;">This is an automated message from %s. Please do not reply to this email.</p>
</body>
</html>`, escapedSubject, escapedGreeting, bodyHTML, template.HTMLEscapeString(appBaseURL()))
}

// buildAssignmentEmail produces one batched notification listing every
// proposal assigned to the reviewer in this validation run.
func buildAssignmentEmail(reviewer *models.User, batch []models.Review) (string, string) {
	subject := fmt.Sprintf("You have been assigned %d proposal(s) to review", len(batch))

	var rows strings.Builder
	for i := range batch {
		title := "(untitled proposal)"
		piName := "-"
		topic := "-"
		if p := batch[i].Proposal; p != nil {
			if strings.TrimSpace(p.Title) != "" {
				title = p.Title
			}
			if p.PI != nil {
				piName = p.PI.DisplayName()
			}
			if p.MainArea != nil {
				topic = p.MainArea.Name
			}
		}
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding:6px 10px;border:1px solid #d1d5db;">%s</td><td style="padding:6px 10px;border:1px solid #d1d5db;">%s</td><td style="padding:6px 10px;border:1px solid #d1d5db;">%s</td><td style="padding:6px 10px;border:1px solid #d1d5db;">%s</td></tr>`,
			template.HTMLEscapeString(title),
			template.HTMLEscapeString(piName),
			template.HTMLEscapeString(topic),
			batch[i].Deadline.Format("2 January 2006"),
		))
	}

	body := fmt.Sprintf(`<p>The following ancillary-study proposal(s) have been assigned to you for review. Please log in to the portal to access the full documents and record your assessment.</p>
<table style="border-collapse:collapse;margin:12px 0;">
  <tr>
    <th style="padding:6px 10px;border:1px solid #d1d5db;background:#f3f4f6;text-align:left;">Proposal</th>
    <th style="padding:6px 10px;border:1px solid #d1d5db;background:#f3f4f6;text-align:left;">Principal investigator</th>
    <th style="padding:6px 10px;border:1px solid #d1d5db;background:#f3f4f6;text-align:left;">Main topic</th>
    <th style="padding:6px 10px;border:1px solid #d1d5db;background:#f3f4f6;text-align:left;">Deadline</th>
  </tr>
  %s
</table>
<p><a href="%s/reviews">Open your review workspace</a></p>`, rows.String(), template.HTMLEscapeString(appBaseURL()))

	return subject, buildFormalEmailHTML(subject, reviewer.DisplayName(), body)
}

// BuildWelcomeEmail produces the invite email for a newly created account.
func BuildWelcomeEmail(user *models.User, tempPassword string) (string, string) {
	subject := "Your MMVD Ancillary Study Portal account"
	body := fmt.Sprintf(`<p>An account has been created for you on the MMVD ancillary-study proposal portal.</p>
<p>Sign in with your email address and the temporary password below, then change the password from your profile page.</p>
<p style="font-size:18px;"><strong>%s</strong></p>
<p><a href="%s/login">Sign in to the portal</a></p>`,
		template.HTMLEscapeString(tempPassword),
		template.HTMLEscapeString(appBaseURL()))
	return subject, buildFormalEmailHTML(subject, user.DisplayName(), body)
}
