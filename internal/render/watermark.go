package render

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"
)

const (
	xmlDecl = `version="1.0" encoding="utf-8" standalone="yes"`
	doctype = `DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd"`
)

// StripWatermarks removes every <text> element whose normalized content
// contains one of markers and re-emits the document with an XML
// declaration and the SVG 1.1 doctype. It reports how many elements were
// removed.
func StripWatermarks(svg []byte, markers []string) ([]byte, int, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(svg); err != nil {
		return nil, 0, fmt.Errorf("parse svg: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, 0, fmt.Errorf("parse svg: no root element")
	}

	normalized := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = normalizeText(m); m != "" {
			normalized = append(normalized, m)
		}
	}

	removed := 0
	for _, text := range root.FindElements("//text") {
		content := normalizeText(textContent(text))
		if !containsAny(content, normalized) {
			continue
		}
		if parent := text.Parent(); parent != nil {
			parent.RemoveChild(text)
			removed++
		}
	}

	out := etree.NewDocument()
	out.CreateProcInst("xml", xmlDecl)
	out.CreateCharData("\n")
	out.CreateDirective(doctype)
	out.CreateCharData("\n")
	out.SetRoot(root)
	data, err := out.WriteToBytes()
	if err != nil {
		return nil, removed, fmt.Errorf("write svg: %w", err)
	}
	return data, removed, nil
}

// textContent concatenates all character data below e, like XPath string().
func textContent(e *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, tok := range el.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(e)
	return sb.String()
}

// normalizeText applies NFKC and collapses whitespace runs to one space.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
