package impl

import (
	"bytes"
	"html/template"

	"ministry/internal/domain/service"
	"ministry/internal/errors"
)

const emailLayout = `<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h2>{{.Subject}}</h2>
{{template "content" .}}
<p style="color:#888;font-size:12px">This message was sent automatically. Please do not reply.</p>
</body></html>
{{define "content"}}<p>{{.Body}}</p>{{end}}`

var emailContent = map[service.NotificationType]string{
	service.NotificationOTP: `{{define "content"}}<p>Your verification code is</p>
<p style="font-size:28px;letter-spacing:6px"><strong>{{.OTP}}</strong></p>
<p>It expires shortly. If you did not request it, ignore this email.</p>{{end}}`,
	service.NotificationOrderPlaced: `{{define "content"}}<p>Thank you for your order <strong>{{index .Data "order_number"}}</strong>.</p>
<p>Total: {{index .Data "total"}} {{index .Data "currency"}}</p>{{end}}`,
	service.NotificationOrderStatus: `{{define "content"}}<p>Your order <strong>{{index .Data "order_number"}}</strong> is now <strong>{{index .Data "status"}}</strong>.</p>
{{with index .Data "note"}}<p>{{.}}</p>{{end}}{{end}}`,
	service.NotificationTicketConfirmed: `{{define "content"}}<p>Your tickets for <strong>{{index .Data "event"}}</strong> are confirmed.</p>
<p>Quantity: {{index .Data "quantity"}}<br>Ticket code: <strong>{{index .Data "code"}}</strong></p>{{end}}`,
	service.NotificationMessageReply: `{{define "content"}}<p>We replied to your message "{{index .Data "subject"}}":</p>
<blockquote>{{.Body}}</blockquote>{{end}}`,
}

var defaultSubjects = map[service.NotificationType]string{
	service.NotificationOTP:             "Your verification code",
	service.NotificationOrderPlaced:     "Order received",
	service.NotificationOrderStatus:     "Order update",
	service.NotificationTicketConfirmed: "Your tickets are confirmed",
	service.NotificationMessageReply:    "Reply to your message",
}

// emailTemplates parses the layout once per notification type.
var emailTemplates = func() map[service.NotificationType]*template.Template {
	out := make(map[service.NotificationType]*template.Template, len(emailContent)+1)
	out[""] = template.Must(template.New("email").Parse(emailLayout))
	for typ, content := range emailContent {
		tmpl := template.Must(template.New("email").Parse(emailLayout))
		out[typ] = template.Must(tmpl.Parse(content))
	}

	return out
}()

// renderEmail returns the subject and HTML body of an email notification.
func renderEmail(msg *service.NotificationMessage) (subject, body string, err error) {
	subject = msg.Subject
	if subject == "" {
		subject = defaultSubjects[msg.Type]
	}
	if subject == "" {
		subject = "Notification"
	}

	tmpl, ok := emailTemplates[msg.Type]
	if !ok {
		tmpl = emailTemplates[""]
	}

	view := struct {
		*service.NotificationMessage
		Subject string
	}{NotificationMessage: msg, Subject: subject}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", "", errors.Wrapf(err, "render %s email", msg.Type)
	}

	return subject, buf.String(), nil
}

// smsText renders the SMS body of a notification.
func smsText(msg *service.NotificationMessage) string {
	switch msg.Type {
	case service.NotificationOTP:
		return "Your verification code is " + msg.OTP
	case service.NotificationOrderStatus:
		return "Order " + msg.Data["order_number"] + " is now " + msg.Data["status"]
	}
	if msg.Body != "" {
		return msg.Body
	}

	return msg.Subject
}
