package formskema

import "strings"

// path is a parent-linked JSON Pointer. Extending it is allocation-light so it
// can be threaded through every recursion and rendered only when needed.
type path struct {
	parent *path
	seg    string
}

var rootPath = &path{}

func (p *path) field(name string) *path { return &path{parent: p, seg: name} }

func (p *path) pointer() string {
	var segs []string
	for cur := p; cur != nil && cur.parent != nil; cur = cur.parent {
		segs = append(segs, cur.seg)
	}
	if len(segs) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteByte('/')
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(segs[i], "~", "~0"), "/", "~1"))
	}
	return b.String()
}
