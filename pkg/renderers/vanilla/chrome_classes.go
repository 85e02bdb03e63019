package vanilla

// Chrome holds the CSS classes applied to the document chrome. The defaults
// target Bootstrap 4, which the built-in header loads.
type Chrome struct {
	Body         string
	ProgressBox  string
	ProgressBar  string
	Main         string
	Section      string
	Question     string
	GroupTitle   string
	Label        string
	NoteBody     string
	ChoiceRow    string
	ChoiceStack  string
	ChoiceLabel  string
	TextGroup    string
	TextInput    string
	SubmitCard   string
	SubmitHeader string
	SubmitButton string
}

// Default*Class values are applied when a Chrome override leaves a field empty.
const (
	DefaultBodyClass         = "bg-info inheritalign"
	DefaultProgressBoxClass  = "progress bg-secondary w-100"
	DefaultProgressBarClass  = "progress-bar progress-bar-striped bg-primary"
	DefaultMainClass         = "container"
	DefaultSectionClass      = "p-2 my-3 bg-white rounded shadow-sm"
	DefaultQuestionClass     = "p-2 my-2 bg-white rounded shadow-sm"
	DefaultGroupTitleClass   = "h4 border-gray mb-0"
	DefaultLabelClass        = "h6"
	DefaultNoteBodyClass     = "mt-2"
	DefaultChoiceRowClass    = "btn-group"
	DefaultChoiceStackClass  = "btn-group btn-group-vertical w-100"
	DefaultChoiceLabelClass  = "btn btn-outline-secondary inheritalign"
	DefaultTextGroupClass    = "input-group"
	DefaultTextInputClass    = "form-control border border-secondary"
	DefaultSubmitCardClass   = "card"
	DefaultSubmitHeaderClass = "card-header"
	DefaultSubmitButtonClass = "btn btn-primary"
)

// DefaultChrome returns the built-in class set.
func DefaultChrome() Chrome {
	return Chrome{
		Body:         DefaultBodyClass,
		ProgressBox:  DefaultProgressBoxClass,
		ProgressBar:  DefaultProgressBarClass,
		Main:         DefaultMainClass,
		Section:      DefaultSectionClass,
		Question:     DefaultQuestionClass,
		GroupTitle:   DefaultGroupTitleClass,
		Label:        DefaultLabelClass,
		NoteBody:     DefaultNoteBodyClass,
		ChoiceRow:    DefaultChoiceRowClass,
		ChoiceStack:  DefaultChoiceStackClass,
		ChoiceLabel:  DefaultChoiceLabelClass,
		TextGroup:    DefaultTextGroupClass,
		TextInput:    DefaultTextInputClass,
		SubmitCard:   DefaultSubmitCardClass,
		SubmitHeader: DefaultSubmitHeaderClass,
		SubmitButton: DefaultSubmitButtonClass,
	}
}

// merge overlays the non-empty fields of override onto c.
func (c Chrome) merge(override Chrome) Chrome {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Chrome{
		Body:         pick(c.Body, override.Body),
		ProgressBox:  pick(c.ProgressBox, override.ProgressBox),
		ProgressBar:  pick(c.ProgressBar, override.ProgressBar),
		Main:         pick(c.Main, override.Main),
		Section:      pick(c.Section, override.Section),
		Question:     pick(c.Question, override.Question),
		GroupTitle:   pick(c.GroupTitle, override.GroupTitle),
		Label:        pick(c.Label, override.Label),
		NoteBody:     pick(c.NoteBody, override.NoteBody),
		ChoiceRow:    pick(c.ChoiceRow, override.ChoiceRow),
		ChoiceStack:  pick(c.ChoiceStack, override.ChoiceStack),
		ChoiceLabel:  pick(c.ChoiceLabel, override.ChoiceLabel),
		TextGroup:    pick(c.TextGroup, override.TextGroup),
		TextInput:    pick(c.TextInput, override.TextInput),
		SubmitCard:   pick(c.SubmitCard, override.SubmitCard),
		SubmitHeader: pick(c.SubmitHeader, override.SubmitHeader),
		SubmitButton: pick(c.SubmitButton, override.SubmitButton),
	}
}
