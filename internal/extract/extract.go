// Package extract parses a single Markdown document and produces its ordered
// headings (with anchor slugs) and links. Extraction is AST-based via
// goldmark with the GFM extensions, so heading-shaped and link-shaped text
// inside fenced code blocks is never extracted: fences are opaque literal
// nodes in the AST. A separate line scan detects unterminated fences, which
// goldmark silently extends to end of file, and surfaces them as structural
// warnings.
package extract

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/docwalk/docwalk/internal/slug"
	"github.com/docwalk/docwalk/internal/types"
)

// Extractor turns raw Markdown into a DocumentInfo. It is safe for
// concurrent use: goldmark parsers are stateless between Parse calls and all
// per-document state lives on the stack.
type Extractor struct {
	md goldmark.Markdown
}

// NewExtractor creates an extractor with GitHub Flavored Markdown enabled,
// matching the dialect the checked documents are written in.
func NewExtractor() *Extractor {
	return &Extractor{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Extract parses source and returns the document's headings, links, and any
// structural warnings. docPath must be the repository-relative, slash
// separated path of the file; link targets are normalized against it.
func (e *Extractor) Extract(docPath string, source []byte) *types.DocumentInfo {
	doc := &types.DocumentInfo{Path: docPath}

	lines := newLineIndex(source)
	root := e.md.Parser().Parse(text.NewReader(source))

	slugger := slug.New()
	blockLine := 1

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		// Track the current block's first line so inline nodes without
		// their own segment still get a usable line number.
		if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			blockLine = lines.lineAt(n.Lines().At(0).Start)
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := nodeText(node, source)
			doc.Headings = append(doc.Headings, types.Heading{
				Level: node.Level,
				Text:  headingText,
				Slug:  slugger.Slug(headingText),
				Line:  headingLine(node, lines, blockLine),
			})

		case *ast.Link:
			doc.Links = append(doc.Links, newLink(
				nodeText(node, source),
				string(node.Destination),
				docPath,
				inlineLine(node, lines, blockLine),
			))

		case *ast.AutoLink:
			target := string(node.URL(source))
			// GFM linkifies bare email addresses without a scheme;
			// normalize them so they classify as external.
			if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(target, "mailto:") {
				target = "mailto:" + target
			}
			doc.Links = append(doc.Links, newLink(
				string(node.Label(source)),
				target,
				docPath,
				inlineLine(node, lines, blockLine),
			))
		}
		return ast.WalkContinue, nil
	})

	doc.Warnings = scanFences(docPath, source)
	return doc
}

// newLink builds a Link record, splitting the raw target into path and
// anchor on the first '#' and normalizing relative paths against the source
// document's directory.
func newLink(linkText, rawTarget, docPath string, line int) types.Link {
	link := types.Link{
		Text:      linkText,
		RawTarget: rawTarget,
		Line:      line,
		Kind:      types.LinkKindInternal,
	}

	if isExternal(rawTarget) {
		link.Kind = types.LinkKindExternal
		return link
	}

	target := rawTarget
	if idx := strings.IndexByte(target, '#'); idx >= 0 {
		link.Anchor = target[idx+1:]
		target = target[:idx]
	}

	if target != "" {
		if unescaped, err := url.PathUnescape(target); err == nil {
			target = unescaped
		}
		// Targets are relative to the linking document, not the scan
		// root. path.Join also cleans "./" prefixes and "../" steps.
		link.Path = path.Join(path.Dir(docPath), target)
	}
	return link
}

// isExternal reports whether a link target points outside the scanned tree.
func isExternal(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "ftp://") ||
		strings.HasPrefix(lower, "//")
}

// nodeText collects the plain text content of a node's subtree, the same
// text a renderer would use to derive the heading anchor.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// headingLine resolves a heading's 1-based source line.
func headingLine(h *ast.Heading, lines *lineIndex, fallback int) int {
	if h.Lines().Len() > 0 {
		return lines.lineAt(h.Lines().At(0).Start)
	}
	return fallback
}

// inlineLine resolves an inline node's 1-based source line via its first
// text descendant, falling back to the enclosing block's first line.
func inlineLine(n ast.Node, lines *lineIndex, fallback int) int {
	line := fallback
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			line = lines.lineAt(t.Segment.Start)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return line
}

// scanFences walks the raw source counting code-fence delimiters. An
// unclosed fence means goldmark treats the rest of the file as code, which
// silently swallows every later heading and link, so the condition is worth
// a warning even though extraction recovers.
//
// A fence delimiter is three or more backticks or tildes indented at most
// three spaces; deeper indentation is an indented code block, not a fence.
// A fence only closes on its own delimiter character, so a backtick run
// inside a tilde fence is literal content.
func scanFences(docPath string, source []byte) []types.StructuralWarning {
	var warnings []types.StructuralWarning

	var fenceChar byte
	inFence := false
	openLine := 0
	for i, raw := range strings.Split(string(source), "\n") {
		indent := len(raw) - len(strings.TrimLeft(raw, " "))
		if indent > 3 {
			continue
		}
		trimmed := raw[indent:]

		var ch byte
		switch {
		case strings.HasPrefix(trimmed, "```"):
			ch = '`'
		case strings.HasPrefix(trimmed, "~~~"):
			ch = '~'
		default:
			continue
		}

		if inFence {
			if ch == fenceChar {
				inFence = false
			}
			continue
		}
		inFence = true
		fenceChar = ch
		openLine = i + 1
	}

	if inFence {
		warnings = append(warnings, types.StructuralWarning{
			Path:    docPath,
			Line:    openLine,
			Message: "unterminated code fence, treated as closed at end of file",
		})
	}
	return warnings
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	// starts holds the byte offset of each line's first byte
	starts []int
}

func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// lineAt returns the 1-based line containing the byte at offset.
func (l *lineIndex) lineAt(offset int) int {
	return sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})
}
