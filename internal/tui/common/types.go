package common

// Focus says which part of the screen receives unmodified keys.
type Focus int

const (
	Browse Focus = iota
	Address
	Filename
	KValue
	Filter
)

// String returns a short label for the status line.
func (f Focus) String() string {
	switch f {
	case Address:
		return "address"
	case Filename:
		return "filename"
	case KValue:
		return "k"
	case Filter:
		return "filter"
	default:
		return "browse"
	}
}

// Editing reports whether a text field has focus.
func (f Focus) Editing() bool {
	return f != Browse
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Focus() Focus

	BrowserView() string
	PanelView() string
	StatusView() string
	HistoryView() string
	HelpView() string
}
