package docs

import (
	"bytes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// FrontMatter is the YAML header accepted at the top of a markdown file.
type FrontMatter struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	SidebarLabel    string   `yaml:"sidebar_label"`
	SidebarPosition *float64 `yaml:"sidebar_position"`
	Slug            string   `yaml:"slug"`
	Tags            []string `yaml:"tags"`
	Keywords        []string `yaml:"keywords"`
	Draft           bool     `yaml:"draft"`
}

var fence = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Content without a header is returned unchanged.
func SplitFrontMatter(content []byte) (header, body []byte) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	if !bytes.HasPrefix(content, fence) {
		return nil, content
	}
	firstNL := bytes.IndexByte(content, '\n')
	if firstNL < 0 || len(bytes.TrimSpace(content[:firstNL])) != len(fence) {
		return nil, content
	}

	rest := content[firstNL+1:]
	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		if end < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+end]
		}
		if bytes.Equal(bytes.TrimRight(line, " \r"), fence) {
			header = rest[:offset]
			if end < 0 {
				return header, nil
			}
			return header, rest[offset+end+1:]
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, content
}

// ParseFrontMatter decodes the header of content into out and returns the body.
func ParseFrontMatter(content []byte, out interface{}) ([]byte, error) {
	header, body := SplitFrontMatter(content)
	if len(bytes.TrimSpace(header)) == 0 {
		return body, nil
	}
	if err := yaml.Unmarshal(header, out); err != nil {
		return nil, errors.Wrap(err, "parsing front matter")
	}
	return body, nil
}
