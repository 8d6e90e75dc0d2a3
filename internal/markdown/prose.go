package markdown

import (
	"bytes"
	"sort"

	gmast "github.com/yuin/goldmark/ast"
)

// ProseLines reports, per "\n" separated line of body, whether the line lies
// outside code blocks. Fence lines count as code. List continuation is
// decided by the parser, so nested list items stay prose at any indent.
func (e *Engine) ProseLines(body []byte) []bool {
	starts := lineStarts(body)
	prose := make([]bool, len(starts))
	for i := range prose {
		prose[i] = true
	}
	code := func(line int) {
		if line >= 0 && line < len(prose) {
			prose[line] = false
		}
	}

	_ = gmast.Walk(e.Parse(body), func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch b := n.(type) {
		case *gmast.CodeBlock:
			for _, l := range contentLines(b, starts) {
				code(l)
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.FencedCodeBlock:
			lines := contentLines(b, starts)
			for _, l := range lines {
				code(l)
			}
			open := -1
			switch {
			case b.Info != nil:
				open = lineOf(starts, b.Info.Segment.Start)
			case len(lines) > 0:
				open = lines[0] - 1
			}
			code(open)
			last := open
			if len(lines) > 0 {
				last = lines[len(lines)-1]
			}
			if closing := last + 1; last >= 0 && closing < len(starts) && isFence(lineAt(body, starts, closing)) {
				code(closing)
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return prose
}

func lineStarts(body []byte) []int {
	starts := []int{0}
	for i, c := range body {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineOf(starts []int, pos int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
}

func lineAt(body []byte, starts []int, i int) []byte {
	end := len(body)
	if i+1 < len(starts) {
		end = starts[i+1]
	}
	return body[starts[i]:end]
}

func contentLines(n gmast.Node, starts []int) []int {
	segs := n.Lines()
	out := make([]int, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		out = append(out, lineOf(starts, segs.At(i).Start))
	}
	return out
}

func isFence(l []byte) bool {
	t := bytes.TrimSpace(l)
	return bytes.HasPrefix(t, []byte("```")) || bytes.HasPrefix(t, []byte("~~~"))
}
