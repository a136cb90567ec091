// file:arbor/pkg/x_log/style.go
package x_log

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

//
// ---------- IBM Carbon Colors ----------

const (
	ColorTeal40    = "#3ddbd9"
	ColorBlue60    = "#4589ff"
	ColorBlue40    = "#78a9ff"
	ColorBlue70    = "#0043ce"
	ColorBlueBase  = "#0f62fe"
	ColorRed60     = "#da1e28"
	ColorRedStrong = "#ff0000"
	ColorOrange40  = "#ff832b"
	ColorGray60    = "#8d8d8d"
	ColorGray10    = "#f4f4f4"
	ColorGray90    = "#262626"
)

//
// ---------- Styles ----------

// Styles drives the console writer. Keys and Values are looked up by field
// name, falling back to the defaults.
type Styles struct {
	Out               io.Writer
	Timestamp         lipgloss.Style
	Message           lipgloss.Style
	Levels            map[Level]lipgloss.Style // badge per level
	Keys              map[string]lipgloss.Style
	Values            map[string]lipgloss.Style
	DefaultKeyStyle   lipgloss.Style
	DefaultValueStyle lipgloss.Style
}

// palette is the handful of colours that differ between themes.
type palette struct {
	key, op, info, message string
}

var (
	darkPalette  = palette{key: ColorBlue40, op: ColorTeal40, info: ColorBlue60, message: ColorGray10}
	lightPalette = palette{key: ColorBlueBase, op: ColorBlue70, info: ColorBlue70, message: ColorGray90}
)

// DefaultStylesByName returns the "light" theme or, for any other name, the dark one.
func DefaultStylesByName(name string) *Styles {
	if strings.EqualFold(name, "light") {
		return DefaultStylesLight()
	}
	return DefaultStylesDark()
}

func DefaultStylesDark() *Styles  { return newStyles(darkPalette) }
func DefaultStylesLight() *Styles { return newStyles(lightPalette) }

func newStyles(p palette) *Styles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	badge := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color(c)).
			Padding(0, 1)
	}

	return &Styles{
		Timestamp: fg(ColorGray60).Width(16),
		Message:   fg(p.message),
		Levels: map[Level]lipgloss.Style{
			DebugLevel: badge(ColorTeal40),
			InfoLevel:  badge(p.info),
			WarnLevel:  badge(ColorOrange40),
			ErrorLevel: badge(ColorRed60),
			FatalLevel: badge(ColorRedStrong),
		},
		Keys: map[string]lipgloss.Style{
			"op":     fg(p.op),
			"op_id":  fg(ColorGray60),
			"req_id": fg(ColorGray60),
			"error":  fg(ColorRed60),
		},
		Values: map[string]lipgloss.Style{
			"backend": lipgloss.NewStyle().Bold(true),
			"action":  lipgloss.NewStyle().Bold(true),
			"op":      lipgloss.NewStyle().Bold(true),
			"error":   lipgloss.NewStyle().Bold(true),
		},
		DefaultKeyStyle:   fg(p.key),
		DefaultValueStyle: lipgloss.NewStyle(),
	}
}

//
// ---------- Console Formatter ----------

// ConsoleWriterWithStyles builds a zerolog.ConsoleWriter rendering through styles.
func ConsoleWriterWithStyles(styles *Styles) zerolog.ConsoleWriter {
	eq := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)).Render("=")

	// field values arrive without their key, so the last key seen picks the style
	var lastKey string

	return zerolog.ConsoleWriter{
		Out:        styles.Out,
		TimeFormat: zerolog.TimeFieldFormat,

		FormatLevel: func(i any) string {
			lvl, err := zerolog.ParseLevel(fmt.Sprint(i))
			style, ok := styles.Levels[lvl]
			if err != nil || !ok {
				style = lipgloss.NewStyle().Background(lipgloss.Color(ColorGray60)).Padding(0, 1)
			}
			return style.Render(levelTag(fmt.Sprint(i)))
		},

		FormatTimestamp: func(i any) string {
			return styles.Timestamp.Render(fmt.Sprintf("[%s]", i))
		},

		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return styles.Message.Render(fmt.Sprint(i))
		},

		FormatFieldName: func(i any) string {
			lastKey = fmt.Sprint(i)
			style, ok := styles.Keys[lastKey]
			if !ok {
				style = styles.DefaultKeyStyle
			}
			return style.Render(lastKey) + eq
		},

		FormatFieldValue: func(i any) string {
			style, ok := styles.Values[lastKey]
			if !ok {
				style = styles.DefaultValueStyle
			}
			return style.Render(fmt.Sprint(i))
		},
	}
}

// levelTag shortens a level name to its three letter upper-case tag.
func levelTag(lvl string) string {
	if len(lvl) < 3 {
		return "???"
	}
	return strings.ToUpper(lvl[:3])
}
