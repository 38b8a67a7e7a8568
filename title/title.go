// Package title implements Title, the normalised page identifier used
// throughout the query core, plus the namespace-pairing logic the
// Toggle transformation relies on.
package title

import (
	"fmt"
	"strings"
)

// Namespace identifiers. 0 is the main article namespace; odd
// namespaces above it are conventionally the "Talk:" companion of the
// even namespace directly below them, mirroring MediaWiki's default
// namespace table.
const (
	NSMain          = 0
	NSTalk          = 1
	NSUser          = 2
	NSUserTalk      = 3
	NSProject       = 4
	NSProjectTalk   = 5
	NSFile          = 6
	NSFileTalk      = 7
	NSMediaWiki     = 8
	NSMediaWikiTalk = 9
	NSTemplate      = 10
	NSTemplateTalk  = 11
	NSCategory      = 14
	NSCategoryTalk  = 15
)

var namespacePrefixes = map[string]int32{
	"talk":          NSTalk,
	"user":          NSUser,
	"user talk":     NSUserTalk,
	"project":       NSProject,
	"project talk":  NSProjectTalk,
	"file":          NSFile,
	"file talk":     NSFileTalk,
	"mediawiki":     NSMediaWiki,
	"mediawiki talk": NSMediaWikiTalk,
	"template":      NSTemplate,
	"template talk": NSTemplateTalk,
	"category":      NSCategory,
	"category talk": NSCategoryTalk,
}

var namespaceNames = func() map[int32]string {
	m := make(map[int32]string, len(namespacePrefixes))
	for name, ns := range namespacePrefixes {
		m[ns] = name
	}
	return m
}()

// Title is an opaque, normalised page identifier: a namespace id and a
// base name. Equality and ordering are by this canonical form.
type Title struct {
	namespace int32
	base      string
}

// New constructs a Title directly from an already-split namespace and
// base name; base must not itself contain a namespace prefix.
func New(namespace int32, base string) Title {
	return Title{namespace: namespace, base: normaliseBase(base)}
}

// Namespace returns the title's namespace id.
func (t Title) Namespace() int32 {
	return t.namespace
}

// Base returns the title's base name, without namespace prefix.
func (t Title) Base() string {
	return t.base
}

// Equal reports whether t and other denote the same canonical title.
func (t Title) Equal(other Title) bool {
	return t.namespace == other.namespace && t.base == other.base
}

// Less orders titles first by namespace, then by base name.
func (t Title) Less(other Title) bool {
	if t.namespace != other.namespace {
		return t.namespace < other.namespace
	}
	return t.base < other.base
}

// Key returns a value suitable for use as a map key in dedup sets.
func (t Title) Key() string {
	return fmt.Sprintf("%d:%s", t.namespace, t.base)
}

// String renders the title in "Namespace:Base" form, omitting the
// prefix for the main namespace.
func (t Title) String() string {
	if t.namespace == NSMain {
		return t.base
	}
	name, ok := namespaceNames[t.namespace]
	if !ok {
		return t.base
	}
	return capitalizeWords(name) + ":" + t.base
}

// Parse splits a raw "Namespace:Base" string into a Title, recognising
// the namespace prefixes in namespacePrefixes case-insensitively.
// Unrecognised or absent prefixes default to the main namespace.
func Parse(raw string) Title {
	if idx := strings.Index(raw, ":"); idx > 0 {
		prefix := strings.ToLower(strings.ReplaceAll(raw[:idx], "_", " "))
		if ns, ok := namespacePrefixes[prefix]; ok {
			return New(ns, raw[idx+1:])
		}
	}
	return New(NSMain, raw)
}

func normaliseBase(base string) string {
	base = strings.TrimSpace(base)
	base = strings.ReplaceAll(base, "_", " ")
	if base == "" {
		return base
	}
	first := []rune(base)
	first[0] = []rune(strings.ToUpper(string(first[0])))[0]
	return string(first)
}

func capitalizeWords(s string) string {
	parts := strings.Split(s, " ")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// companionOf maps a subject namespace to its talk namespace and back.
var companionOf = map[int32]int32{
	NSMain:          NSTalk,
	NSTalk:          NSMain,
	NSUser:          NSUserTalk,
	NSUserTalk:      NSUser,
	NSProject:       NSProjectTalk,
	NSProjectTalk:   NSProject,
	NSFile:          NSFileTalk,
	NSFileTalk:      NSFile,
	NSMediaWiki:     NSMediaWikiTalk,
	NSMediaWikiTalk: NSMediaWiki,
	NSTemplate:      NSTemplateTalk,
	NSTemplateTalk:  NSTemplate,
	NSCategory:      NSCategoryTalk,
	NSCategoryTalk:  NSCategory,
}

// Companion returns t's talk/subject counterpart in the paired
// namespace, or (zero, false) if t's namespace has no companion (e.g.
// a namespace outside the standard table).
func Companion(t Title) (Title, bool) {
	ns, ok := companionOf[t.namespace]
	if !ok {
		return Title{}, false
	}
	return New(ns, t.base), true
}
