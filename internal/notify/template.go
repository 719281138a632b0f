package notify

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"

	"github.com/insulindose/interest-api/internal/domain"
)

// bodyTemplate is the Liquid source for the notification email. Kept inline:
// there is exactly one transactional template in this service and it changes
// with the code, not with marketing copy.
const bodyTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>New expression of interest</h2>
  <table cellpadding="6">
    <tr><td><strong>ID</strong></td><td>{{ id }}</td></tr>
    {% if title != "" %}<tr><td><strong>Title</strong></td><td>{{ title | escape }}</td></tr>{% endif %}
    <tr><td><strong>Name</strong></td><td>{{ name | escape }}</td></tr>
    <tr><td><strong>Email</strong></td><td>{{ email | escape }}</td></tr>
    <tr><td><strong>Country</strong></td><td>{{ country | escape }}</td></tr>
  </table>
</body>
</html>`

var (
	tplOnce sync.Once
	tpl     *liquid.Template
	tplErr  error
)

// renderBody renders the notification HTML for one submission.
func renderBody(sub domain.Submission) (string, error) {
	tplOnce.Do(func() {
		tpl, tplErr = liquid.NewEngine().ParseString(bodyTemplate)
	})
	if tplErr != nil {
		return "", fmt.Errorf("parse template: %w", tplErr)
	}

	title := ""
	if sub.Title != nil {
		title = *sub.Title
	}

	out, err := tpl.Render(map[string]interface{}{
		"id":      sub.ID,
		"title":   title,
		"name":    sub.Name,
		"email":   sub.Email,
		"country": sub.Country,
	})
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return string(out), nil
}
