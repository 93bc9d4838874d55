package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics returns the topics listed in readme.md as "* name: ...".
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := Topic(topic); err != nil {
				t.Errorf("Topic(%q) unexpected error: %v", topic, err)
			}
		})
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), ".md")
		if base != "readme" && !slices.Contains(listed, base) {
			t.Errorf("topic %q is not listed in readme.md", base)
		}
	}
}

func TestNames(t *testing.T) {
	topics, err := Names()
	if err != nil {
		t.Fatalf("Names() unexpected error: %v", err)
	}
	if got, want := strings.Join(topics, ","), "api,config,lots,platforms"; got != want {
		t.Errorf("Names() = %q, want %q", got, want)
	}

	all, err := Topic("*")
	if err != nil {
		t.Fatalf("Topic(*) unexpected error: %v", err)
	}
	if strings.Contains(all, "# folio\n") {
		t.Errorf("Topic(*) includes the readme")
	}

	if _, err := Topic("missing"); err == nil {
		t.Errorf("Topic(missing) = nil error, want an error")
	}
}

// Every topic opens with a single level one heading.
func TestTopicTitles(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			content, err := os.ReadFile(file)
			if err != nil {
				t.Fatalf("failed to read %s: %v", file, err)
			}
			root := goldmark.DefaultParser().Parse(text.NewReader(content))

			titles := 0
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
					titles++
				}
				return ast.WalkContinue, nil
			})
			if titles != 1 {
				t.Errorf("%s has %d level one headings, want 1", file, titles)
			}
			if first, ok := root.FirstChild().(*ast.Heading); !ok || first.Level != 1 {
				t.Errorf("%s does not open with a level one heading", file)
			}
		})
	}
}
