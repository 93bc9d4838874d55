// Package docs embeds the documentation topics displayed by `folio topic`.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Readme is the topic listing the others.
const Readme = "readme"

// Topic returns the markdown of a topic. The name "*" stands for every topic
// but the readme.
func Topic(name string) (string, error) {
	if name == "*" {
		names, err := Names()
		if err != nil {
			return "", err
		}
		return Topics(names...)
	}
	content, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics returns the markdown of the named topics, one after the other.
func Topics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		content, err := Topic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Names returns the sorted names of the topics, the readme excluded.
func Names() ([]string, error) {
	matches, err := fs.Glob(files, "*.md")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, m := range matches {
		if name := strings.TrimSuffix(m, ".md"); name != Readme {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}
