package notes

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

var frontMatterPattern = regexp.MustCompile(`(?ms)\A---\s*\n(.*?)\n---\s*\n?`)

type frontMatter struct {
	Title string `yaml:"title"`
}

// TitleOf returns the title declared in front matter, else the first level-1
// heading, else the filename stem.
func TitleOf(path string, content []byte) string {
	fm, body := splitFrontMatter(content)
	if len(fm) > 0 {
		var meta frontMatter
		if err := yaml.Unmarshal(fm, &meta); err == nil {
			if title := strings.TrimSpace(meta.Title); title != "" {
				return title
			}
		}
	}

	for _, h := range scanHeadings(body) {
		if h.Level == 1 && h.Text != "" {
			return h.Text
		}
	}
	return stem(path)
}

func splitFrontMatter(data []byte) ([]byte, []byte) {
	loc := frontMatterPattern.FindSubmatchIndex(data)
	if len(loc) < 4 {
		return nil, data
	}
	return data[loc[2]:loc[3]], data[loc[1]:]
}

// bodyOffset is the byte offset where content after front matter begins.
func bodyOffset(data []byte) int {
	loc := frontMatterPattern.FindIndex(data)
	if loc == nil {
		return 0
	}
	return loc[1]
}

type heading struct {
	Level int
	Text  string
	// Start and End bound the full source line, End excluding the newline.
	Start int
	End   int
}

// scanHeadings lists the top-level ATX and setext headings in source order.
func scanHeadings(source []byte) []heading {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var headings []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}

		var buf bytes.Buffer
		for i := 0; i < h.Lines().Len(); i++ {
			seg := h.Lines().At(i)
			buf.Write(seg.Value(source))
		}

		first := h.Lines().At(0)
		last := h.Lines().At(h.Lines().Len() - 1)
		start := bytes.LastIndexByte(source[:first.Start], '\n') + 1
		end := len(source)
		if idx := bytes.IndexByte(source[last.Stop:], '\n'); idx >= 0 {
			end = last.Stop + idx
		}
		if !isATX(source[start:end]) {
			// Setext underline sits on the following line.
			if next := bytes.IndexByte(source[min(end+1, len(source)):], '\n'); next >= 0 {
				end = end + 1 + next
			} else {
				end = len(source)
			}
		}

		headings = append(headings, heading{
			Level: h.Level,
			Text:  strings.TrimSpace(buf.String()),
			Start: start,
			End:   end,
		})
	}
	return headings
}

func isATX(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(line, " "), []byte("#"))
}
