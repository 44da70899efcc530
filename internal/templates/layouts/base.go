package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const defaultPageTitle = "Mentor availability"

// Base wraps content in the page shell. A nil content renders an empty body.
func Base(title string, content templ.Component) templ.Component {
	if title == "" {
		title = defaultPageTitle
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+`</title>`+
			`<link rel="stylesheet" href="/static/css/main.css">`+
			`<script src="/static/js/htmx.min.js" defer></script>`+
			`</head><body><main class="page">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
