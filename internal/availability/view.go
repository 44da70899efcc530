package availability

const (
	EmptyMessage        = "No availability schedule set"
	NotAvailableMessage = "Not available"
	DefaultTitle        = "Weekly Availability"
)

type ViewState string

const (
	ViewEmpty   ViewState = "empty"
	ViewCompact ViewState = "compact"
	ViewFull    ViewState = "full"
)

// Options are the caller supplied presentation flags.
type Options struct {
	ShowTitle bool
	Compact   bool
}

type DayView struct {
	Label     string   `json:"label"`
	Ranges    []string `json:"ranges,omitempty"`
	Available bool     `json:"available"`
	Message   string   `json:"message,omitempty"`
}

// View is the render-ready result of SelectView. Only the fields belonging to
// State are populated.
type View struct {
	State           ViewState `json:"state"`
	Title           string    `json:"title,omitempty"`
	Message         string    `json:"message,omitempty"`
	Summary         *Summary  `json:"compact,omitempty"`
	SummaryText     string    `json:"summary,omitempty"`
	Days            []DayView `json:"days,omitempty"`
	TimezoneCaption string    `json:"timezoneCaption,omitempty"`
	ValidityCaption string    `json:"validityCaption,omitempty"`
}

// SelectView picks the Empty, Compact or Full presentation for w. It holds no
// state and can be called on every render.
func SelectView(w *WeeklyAvailability, opts Options) View {
	view := View{}
	if opts.ShowTitle {
		view.Title = DefaultTitle
	}

	var days []DaySchedule
	if w != nil {
		days = Normalize(w.Days)
	}
	if len(days) == 0 {
		view.State = ViewEmpty
		view.Message = EmptyMessage
		return view
	}

	if opts.Compact {
		summary := Summarize(days)
		view.State = ViewCompact
		view.Summary = &summary
		view.SummaryText = summary.Text()
		return view
	}

	view.State = ViewFull
	view.Days = make([]DayView, 0, len(days))
	for _, day := range days {
		view.Days = append(view.Days, dayView(day))
	}
	if caption, ok := TimezoneCaption(w.Timezone); ok {
		view.TimezoneCaption = caption
	}
	if caption, ok := ValidityCaption(w.DateRange); ok {
		view.ValidityCaption = caption
	}
	return view
}

func dayView(day DaySchedule) DayView {
	if len(day.TimeRanges) == 0 {
		return DayView{
			Label:   day.Day,
			Message: NotAvailableMessage,
		}
	}
	ranges := make([]string, 0, len(day.TimeRanges))
	for _, r := range day.TimeRanges {
		ranges = append(ranges, FormatRange(r))
	}
	return DayView{
		Label:     day.Day,
		Ranges:    ranges,
		Available: true,
	}
}
