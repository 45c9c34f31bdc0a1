package mirror

import (
	"github.com/fatih/structtag"
	"github.com/predakanga/derive_gen/pkg/parse"
	log "github.com/sirupsen/logrus"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var splitterRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// options are the serde and go attributes the mirror understands.
type options struct {
	rename    string
	renameAll string
	skip      bool
	goName    string
	tags      *structtag.Tags
}

func readOptions(owner string, attrs parse.Attributes) options {
	var opts options
	for _, path := range []string{"serde", "go"} {
		for _, attr := range attrs.Get(path) {
			items, err := attr.Meta()
			if err != nil {
				log.Warnf("Failed to parse #[%v] on %v: %v", path, owner, err)
				continue
			}
			for _, item := range items {
				opts.apply(owner, path, item)
			}
		}
	}
	return opts
}

func (o *options) apply(owner, path string, item parse.Meta) {
	value, _ := item.Str()
	switch {
	case path == "serde" && item.Path == "rename":
		o.rename = value
	case path == "serde" && item.Path == "rename_all":
		o.renameAll = value
	case path == "serde" && item.Path == "skip":
		o.skip = true
	case path == "go" && item.Path == "name":
		o.goName = value
	case path == "go" && item.Path == "tag":
		tags, err := structtag.Parse(value)
		if err != nil {
			log.Warnf("Failed to parse tag for %v: %v", owner, err)
			return
		}
		o.tags = tags
	case path == "serde":
		// Other serde options do not change the Go shape
	default:
		log.Warnf("Unknown option #[%v(%v)] on %v", path, item.Path, owner)
	}
}

type FieldInfo struct {
	Field    parse.Field
	GoName   string
	JSONName string
	Skip     bool
	Optional bool
	Extra    *structtag.Tags
}

// Tag merges the json tag with any extra tags. An extra json tag wins.
func (f *FieldInfo) Tag() map[string]string {
	tags := &structtag.Tags{}
	json := &structtag.Tag{Key: "json", Name: f.JSONName}
	if f.Skip {
		json.Name = "-"
	} else if f.Optional {
		json.Options = []string{"omitempty"}
	}
	_ = tags.Set(json)
	if f.Extra != nil {
		for _, tag := range f.Extra.Tags() {
			_ = tags.Set(tag)
		}
	}

	out := make(map[string]string, tags.Len())
	for _, tag := range tags.Tags() {
		out[tag.Key] = tag.Value()
	}
	return out
}

func walkFields(owner string, fields parse.Fields, renameAll string, fn func(FieldInfo) bool) {
	for _, field := range fields.List {
		opts := readOptions(owner+"."+field.Accessor(), field.Attributes)
		info := FieldInfo{
			Field:    field,
			GoName:   goName(field),
			JSONName: field.Accessor(),
			Skip:     opts.skip,
			Optional: optional(field.Type),
			Extra:    opts.tags,
		}
		if opts.goName != "" {
			info.GoName = opts.goName
		}
		if renameAll != "" && field.Named() {
			info.JSONName = applyRenameAll(owner, field.Accessor(), renameAll)
		}
		if opts.rename != "" {
			info.JSONName = opts.rename
		}
		if !fn(info) {
			return
		}
	}
}

func goName(f parse.Field) string {
	if !f.Named() {
		return f.Ident("F")
	}
	return exported(f.Accessor())
}

func words(name string) []string {
	spaced := splitterRegex.ReplaceAllString(strings.TrimPrefix(name, "r#"), "$1 $2")
	return strings.FieldsFunc(spaced, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + word[size:]
}

func exported(name string) string {
	var sb strings.Builder
	for _, w := range words(name) {
		sb.WriteString(capitalize(w))
	}
	if sb.Len() == 0 {
		return "X"
	}
	return sb.String()
}

func applyRenameAll(owner, name, rule string) string {
	parts := words(name)
	switch rule {
	case "lowercase":
		return strings.ToLower(strings.Join(parts, ""))
	case "UPPERCASE":
		return strings.ToUpper(strings.Join(parts, ""))
	case "PascalCase":
		return exported(name)
	case "camelCase":
		pascal := exported(name)
		r, size := utf8.DecodeRuneInString(pascal)
		return string(unicode.ToLower(r)) + pascal[size:]
	case "snake_case":
		return strings.ToLower(strings.Join(parts, "_"))
	case "SCREAMING_SNAKE_CASE":
		return strings.ToUpper(strings.Join(parts, "_"))
	case "kebab-case":
		return strings.ToLower(strings.Join(parts, "-"))
	case "SCREAMING-KEBAB-CASE":
		return strings.ToUpper(strings.Join(parts, "-"))
	}
	log.Warnf("Unknown rename_all rule %q on %v", rule, owner)
	return name
}
