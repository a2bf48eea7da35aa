package spoor

import "strings"

// A Style is a formatting context a spoor logger operates in.
//
// Styles mirror the stages an application moves through:
// local development includes wall-clock timestamps in log lines,
// while dev, test and prod omit them because the collecting
// infrastructure stamps records itself.
type Style string

var _ Enumerable = Local

const (
	Local Style = "LOCAL"
	Dev   Style = "DEV"
	Test  Style = "TEST"
	Prod  Style = "PROD"
)

func (s Style) String() string { return string(s) }

func (s Style) Valid() error {
	switch s {
	case Local, Dev, Test, Prod:
		return nil
	default:
		return ErrNotValid
	}
}

// IncludesTimestamp asserts whether log lines formatted under the Style
// carry their own timestamp.
func (s Style) IncludesTimestamp() bool { return s == Local }

func (s Style) IsLocal() bool { return s == Local }

func (s Style) IsDev() bool { return s == Dev }

func (s Style) IsTest() bool { return s == Test }

func (s Style) IsProd() bool { return s == Prod }

// NewStyle casts val into a Style, upper casing it first.
// An unrecognized val yields Local.
func NewStyle(val string) Style {
	s := Style(strings.ToUpper(val))
	if err := s.Valid(); err != nil {
		return Local
	}

	return s
}
