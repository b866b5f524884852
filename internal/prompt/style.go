// Package prompt holds the style templates used to build the upstream
// user prompt.
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed templates/*.md
var templateFS embed.FS

const topicPlaceholder = "{{topic}}"

// architectSystem is the system instruction paired with the project
// specification templates.
const architectSystem = "You are a senior software architect. Create detailed, actionable project specifications."

var ErrUnknownStyle = errors.New("unknown style")

// Style is one of the known prompt styles. The zero value is StyleHacker.
type Style int

const (
	StyleHacker Style = iota
	StyleNeon
	StyleMinimal
	StyleBrutalist
	StyleDark
	StyleVibrant

	styleCount
)

var styleNames = [styleCount]string{
	StyleHacker:    "hacker",
	StyleNeon:      "neon",
	StyleMinimal:   "minimal",
	StyleBrutalist: "brutalist",
	StyleDark:      "dark",
	StyleVibrant:   "vibrant",
}

var templates [styleCount]string

func init() {
	for i, name := range styleNames {
		data, err := templateFS.ReadFile("templates/" + name + ".md")
		if err != nil {
			panic(fmt.Sprintf("prompt: missing template for style %s: %v", name, err))
		}
		templates[i] = strings.TrimSpace(string(data))
	}
}

func (s Style) String() string {
	if !s.valid() {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

func (s Style) valid() bool {
	return s >= 0 && s < styleCount
}

// Styles returns every style in declaration order.
func Styles() []Style {
	styles := make([]Style, 0, styleCount)
	for s := Style(0); s < styleCount; s++ {
		styles = append(styles, s)
	}
	return styles
}

// ParseStyle matches name against the known styles, ignoring case and
// surrounding whitespace.
func ParseStyle(name string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for s, candidate := range styleNames {
		if candidate == key {
			return Style(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// Resolve is the lenient form of ParseStyle: empty or unknown names yield
// fallback instead of an error.
func Resolve(name string, fallback Style) Style {
	style, err := ParseStyle(name)
	if err != nil {
		return fallback
	}
	return style
}

// Render returns the style's template with topic substituted.
func (s Style) Render(topic string) string {
	if !s.valid() {
		s = StyleHacker
	}
	return strings.NewReplacer(topicPlaceholder, topic).Replace(templates[s])
}

// System returns the system instruction the style's template was written
// for, or "" when the caller's configured instruction applies.
func (s Style) System() string {
	switch s {
	case StyleDark, StyleVibrant:
		return architectSystem
	}
	return ""
}
