package cliui

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/glamour"
)

const markdownWidth = 80

// RenderMarkdown renders markdown for the terminal. On failure the input is
// returned with the error so callers can print it plain.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}
	return rendered, nil
}

// Document lays out a decoded JSON value as markdown under a title. Object
// keys become bullets or headings in sorted order; list entries with a
// name-like field use it as their heading.
func Document(title string, value any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	writeSection(&b, value, 2)
	return b.String()
}

func writeSection(b *strings.Builder, value any, level int) {
	heading := strings.Repeat("#", min(level, 6))

	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			child := v[key]
			if isScalar(child) {
				fmt.Fprintf(b, "- **%s:** %s\n", Humanize(key), scalar(child))
				continue
			}
			fmt.Fprintf(b, "\n%s %s\n\n", heading, Humanize(key))
			writeSection(b, child, level+1)
		}
		b.WriteString("\n")

	case []any:
		for i, item := range v {
			if isScalar(item) {
				fmt.Fprintf(b, "- %s\n", scalar(item))
				continue
			}
			fmt.Fprintf(b, "\n%s %s\n\n", heading, itemTitle(item, i))
			writeSection(b, item, level+1)
		}
		b.WriteString("\n")

	default:
		fmt.Fprintf(b, "%s\n\n", scalar(v))
	}
}

var titleKeys = []string{"name", "title", "category", "item", "color"}

func itemTitle(item any, i int) string {
	if obj, ok := item.(map[string]any); ok {
		for _, key := range titleKeys {
			if s, ok := obj[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("%d.", i+1)
}

func isScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

func scalar(v any) string {
	switch s := v.(type) {
	case nil:
		return "-"
	case string:
		return s
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", s), "0"), ".")
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Humanize turns a camelCase or snake_case key into title words.
func Humanize(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		case r == '_':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// HexColors collects the distinct hex color strings in a decoded JSON value,
// in sorted key order.
func HexColors(value any) []string {
	seen := map[string]bool{}
	var out []string

	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			for _, key := range sortedKeys(t) {
				walk(t[key])
			}
		case []any:
			for _, item := range t {
				walk(item)
			}
		case string:
			code := strings.ToUpper(t)
			if hexColor.MatchString(t) && !seen[code] {
				seen[code] = true
				out = append(out, code)
			}
		}
	}
	walk(value)
	return out
}
