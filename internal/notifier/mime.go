// internal/notifier/mime.go
package notifier

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// buildMIMEMessage renders the message as multipart/mixed: an HTML body part
// followed by the base64-encoded resume attachment. The same payload serves
// both the SMTP and the SES raw-email paths.
func buildMIMEMessage(msg Message) []byte {
	boundary := strings.ReplaceAll(uuid.New().String(), "-", "")

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	builder.WriteString(fmt.Sprintf("Message-ID: <%d.%s@careers-intake>\r\n",
		time.Now().UnixNano(), boundary[:12]))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary))
	builder.WriteString("\r\n")

	// HTML body part
	builder.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	builder.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(msg.HTMLBody)
	builder.WriteString("\r\n")

	// Attachment part
	contentType := mime.TypeByExtension(filepath.Ext(msg.Attachment.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	builder.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	builder.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", contentType, msg.Attachment.Filename))
	builder.WriteString("Content-Transfer-Encoding: base64\r\n")
	builder.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", msg.Attachment.Filename))
	builder.WriteString("\r\n")
	builder.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(msg.Attachment.Content)))
	builder.WriteString("\r\n")

	builder.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return []byte(builder.String())
}

// wrapBase64 folds encoded content at the RFC 2045 line limit.
func wrapBase64(encoded string) string {
	const lineLen = 76
	var builder strings.Builder
	for len(encoded) > lineLen {
		builder.WriteString(encoded[:lineLen])
		builder.WriteString("\r\n")
		encoded = encoded[lineLen:]
	}
	builder.WriteString(encoded)
	return builder.String()
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}
