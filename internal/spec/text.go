package spec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// fallbackLanguage is used when a localized text has no entry for the
// requested language.
const fallbackLanguage = "en"

// Text is a description that is either plain text or keyed by language tag.
type Text struct {
	plain     string
	localized map[string]string
}

// PlainText returns a Text that ignores language.
func PlainText(s string) Text {
	return Text{plain: s}
}

// LocalizedText returns a Text keyed by language tag.
func LocalizedText(m map[string]string) Text {
	if m == nil {
		m = map[string]string{}
	}
	return Text{localized: m}
}

// IsLocalized reports whether the text is keyed by language.
func (t Text) IsLocalized() bool {
	return t.localized != nil
}

// IsZero reports whether the text carries nothing to apply.
func (t Text) IsZero() bool {
	if t.localized != nil {
		return len(t.localized) == 0
	}
	return t.plain == ""
}

// UnmarshalYAML accepts a scalar or a mapping of language tag to text.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*t = Text{}
			return nil
		}
		*t = PlainText(node.Value)
		return nil
	case yaml.MappingNode:
		m := make(map[string]string, len(node.Content)/2)
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("localized text at line %d: %w", node.Line, err)
		}
		*t = LocalizedText(m)
		return nil
	default:
		return fmt.Errorf("description at line %d must be a string or a language mapping", node.Line)
	}
}

// BaseLanguage strips everything from the first '-' or '_' of language,
// keeping case: "ja-JP" and "ja_JP" become "ja".
func BaseLanguage(language string) string {
	if i := strings.IndexAny(language, "-_"); i >= 0 {
		return language[:i]
	}
	return language
}

// Translate picks the text for language. Plain text is returned unchanged.
// Localized text falls back to "en" and then to "".
func Translate(t Text, language string) string {
	if t.localized == nil {
		return t.plain
	}
	if s, ok := t.localized[BaseLanguage(language)]; ok {
		return s
	}
	return t.localized[fallbackLanguage]
}
