package availability

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	core "github.com/codr1/mentorhours/internal/availability"
)

const refreshEvent = "availability:refresh"

// PanelData is everything the availability panel needs to render.
type PanelData struct {
	MentorID string
	View     core.View
	// RefreshURL, when set, lets htmx reload the panel in place.
	RefreshURL string
}

// Panel renders the availability panel in whichever state the view selected.
func Panel(data PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<section class="availability-panel" id="availability-panel" data-state="`)
		hw.text(string(data.View.State))
		hw.raw(`"`)
		if data.MentorID != "" {
			hw.raw(` data-mentor-id="`)
			hw.text(data.MentorID)
			hw.raw(`"`)
		}
		if data.RefreshURL != "" {
			hw.raw(` hx-get="`)
			hw.text(data.RefreshURL)
			hw.raw(`" hx-trigger="`+refreshEvent+` from:body" hx-swap="outerHTML"`)
		}
		hw.raw(`>`)

		if data.View.Title != "" {
			hw.raw(`<h3 class="availability-title">`)
			hw.text(data.View.Title)
			hw.raw(`</h3>`)
		}

		switch data.View.State {
		case core.ViewCompact:
			writeCompact(hw, data.View)
		case core.ViewFull:
			writeFull(hw, data.View)
		default:
			writeEmpty(hw, data.View)
		}

		hw.raw(`</section>`)
		return hw.err
	})
}

func writeEmpty(hw *htmlWriter, view core.View) {
	message := view.Message
	if message == "" {
		message = core.EmptyMessage
	}
	hw.raw(`<p class="availability-empty">`)
	hw.text(message)
	hw.raw(`</p>`)
}

func writeCompact(hw *htmlWriter, view core.View) {
	hw.raw(`<p class="availability-summary">`)
	hw.text(view.SummaryText)
	hw.raw(`</p>`)
}

func writeFull(hw *htmlWriter, view core.View) {
	hw.raw(`<ul class="availability-days">`)
	for _, day := range view.Days {
		hw.raw(`<li class="availability-day"><span class="availability-day-label">`)
		hw.text(day.Label)
		hw.raw(`</span>`)
		if !day.Available {
			hw.raw(`<span class="availability-unavailable">`)
			hw.text(day.Message)
			hw.raw(`</span>`)
		} else {
			hw.raw(`<span class="availability-ranges">`)
			for _, r := range day.Ranges {
				hw.raw(`<span class="availability-range">`)
				hw.text(r)
				hw.raw(`</span>`)
			}
			hw.raw(`</span>`)
		}
		hw.raw(`</li>`)
	}
	hw.raw(`</ul>`)

	if view.TimezoneCaption != "" {
		hw.raw(`<p class="availability-caption availability-timezone">`)
		hw.text(view.TimezoneCaption)
		hw.raw(`</p>`)
	}
	if view.ValidityCaption != "" {
		hw.raw(`<p class="availability-caption availability-validity">`)
		hw.text(view.ValidityCaption)
		hw.raw(`</p>`)
	}
}

// PlainText renders the view as plain text lines for e-mail bodies.
func PlainText(view core.View) string {
	var b strings.Builder
	if view.Title != "" {
		b.WriteString(view.Title)
		b.WriteString("\n\n")
	}
	switch view.State {
	case core.ViewCompact:
		b.WriteString(view.SummaryText)
		b.WriteString("\n")
	case core.ViewFull:
		for _, day := range view.Days {
			b.WriteString(day.Label)
			b.WriteString(": ")
			if day.Available {
				b.WriteString(strings.Join(day.Ranges, ", "))
			} else {
				b.WriteString(day.Message)
			}
			b.WriteString("\n")
		}
		if view.TimezoneCaption != "" {
			b.WriteString("\n")
			b.WriteString(view.TimezoneCaption)
			b.WriteString("\n")
		}
		if view.ValidityCaption != "" {
			b.WriteString(view.ValidityCaption)
			b.WriteString("\n")
		}
	default:
		message := view.Message
		if message == "" {
			message = core.EmptyMessage
		}
		b.WriteString(message)
		b.WriteString("\n")
	}
	return b.String()
}

// htmlWriter keeps the first write error so component bodies stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}
