package schema

import (
	"strings"
)

// Delimiter introduces a schema block inside a chat turn. Everything on
// the lines after it is compiled by Compile.
const Delimiter = "::::"

// maxDepth bounds the nesting stack. Generous for legitimate input; it
// exists to stop pathological or unterminated blocks.
const maxDepth = 64

// ExtractBlock returns the text following the first line that consists of
// the `::::` delimiter alone. ok is false when no delimiter line exists.
func ExtractBlock(raw string) (block string, ok bool) {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == Delimiter {
			return strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", false
}

// Compile turns one respMSL block into a schema tree rooted at a
// KindObject node. It is a pure function: all working state is local, and
// a failed compile returns an error with no partial tree.
func Compile(block string) (*Node, error) {
	lines, err := segment(block)
	if err != nil {
		return nil, err
	}
	return build(lines)
}

// frame is one open container on the depth stack.
type frame struct {
	node        *Node
	depth       int // depth of the introducing line; -1 for the root
	childDepth  int // expected depth of non-bullet child lines, -1 until seen
	bulletDepth int // expected depth of bullet lines, -1 until the first bullet
	line        int // line that opened the frame, for error reporting
}

// build runs the depth-stack machine over the classified lines. Bare keys
// push a kind-pending frame that the first bullet underneath resolves to
// either an object array or a string array; every later bullet must keep
// that shape.
func build(lines []logicalLine) (*Node, error) {
	root := &Node{Kind: KindObject}
	stack := []*frame{{node: root, depth: -1, childDepth: -1, bulletDepth: -1}}

	pop := func(to int) {
		for len(stack) > 1 && stack[len(stack)-1].depth >= to {
			closeFrame(stack[len(stack)-1])
			stack = stack[:len(stack)-1]
		}
	}
	push := func(f *frame) error {
		if len(stack) >= maxDepth {
			return parseErrf(ErrMaxDepth, f.line, "nesting deeper than %d levels", maxDepth)
		}
		stack = append(stack, f)
		return nil
	}

	for _, ln := range lines {
		pop(ln.depth)
		top := stack[len(stack)-1]

		// A bare key whose first child is not a bullet never becomes an
		// array. It closes as a plain string and the line belongs to the
		// enclosing container instead.
		if top.node.Kind == kindPending && ln.kind != lineBullet {
			closeFrame(top)
			stack = stack[:len(stack)-1]
			top = stack[len(stack)-1]
		}

		var err error
		switch {
		case top.node.Kind == kindPending:
			err = buildPendingChild(top, ln, push)
		case top.node.Kind == KindObjectArray:
			err = buildObjectMember(top, ln, push)
		case top.node.Kind == KindStringArray:
			err = buildStringMember(top, ln)
		default:
			err = buildProperty(top, ln, push)
		}
		if err != nil {
			return nil, err
		}
	}
	for len(stack) > 0 {
		closeFrame(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}
	return root, nil
}

// closeFrame finalizes a container when its subtree ends. A bare key that
// never received a bullet degrades to a plain undescribed string.
func closeFrame(f *frame) {
	if f.node.Kind == kindPending {
		f.node.Kind = KindString
	}
}

// buildProperty handles a child line of an object context (the root).
// Sibling properties must share one indentation level.
func buildProperty(top *frame, ln logicalLine, push func(*frame) error) error {
	switch ln.kind {
	case lineBullet:
		return parseErrf(ErrMalformedLine, ln.num, "bullet without a preceding key")
	case lineText:
		return parseErrf(ErrMalformedLine, ln.num, "expected Key: value, got %q", ln.value)
	}

	if top.childDepth < 0 {
		top.childDepth = ln.depth
	} else if ln.depth != top.childDepth {
		return parseErrf(ErrIndentation, ln.num,
			"indent %d does not match any open level (siblings are at %d)", ln.depth, top.childDepth)
	}
	return attach(top, ln, ln.depth, push)
}

// buildPendingChild resolves a kind-pending bare key from its first
// bullet. Non-bullet lines never reach here; build demotes the pending
// frame before dispatch.
func buildPendingChild(top *frame, ln logicalLine, push func(*frame) error) error {
	top.bulletDepth = ln.depth

	payload, err := classify(ln.value, ln.num)
	if err != nil {
		return err
	}
	if payload.kind == lineText {
		top.node.Kind = KindStringArray
		return nil // literal text is instance data, not shape
	}
	top.node.Kind = KindObjectArray
	return attach(top, payload, ln.depth, push)
}

// buildObjectMember handles lines inside an object-array context: bullets
// at the bullet level and deeper property lines all contribute to the one
// shared element property set.
func buildObjectMember(top *frame, ln logicalLine, push func(*frame) error) error {
	if ln.kind == lineBullet {
		if ln.depth != top.bulletDepth {
			return parseErrf(ErrIndentation, ln.num,
				"bullet at indent %d, items of %q are at %d", ln.depth, top.node.Key, top.bulletDepth)
		}
		payload, err := classify(ln.value, ln.num)
		if err != nil {
			return err
		}
		if payload.kind == lineText {
			return parseErrf(ErrMalformedEnum, ln.num,
				"items of %q are objects, got plain text %q", top.node.Key, payload.value)
		}
		return attach(top, payload, ln.depth, push)
	}

	if ln.kind == lineText {
		return parseErrf(ErrMalformedLine, ln.num, "expected Key: value, got %q", ln.value)
	}
	if ln.depth <= top.bulletDepth {
		return parseErrf(ErrIndentation, ln.num,
			"indent %d does not match any open level", ln.depth)
	}
	// Continuation property of the current element, e.g. a second field
	// written under the bullet instead of behind its own dash.
	if top.childDepth < 0 {
		top.childDepth = ln.depth
	} else if ln.depth != top.childDepth {
		return parseErrf(ErrIndentation, ln.num,
			"indent %d does not match any open level (siblings are at %d)", ln.depth, top.childDepth)
	}
	return attach(top, ln, ln.depth, push)
}

// buildStringMember handles lines inside a string-array context. The
// schema records only that elements are strings, so bullet text and its
// continuations are validated and discarded.
func buildStringMember(top *frame, ln logicalLine) error {
	switch ln.kind {
	case lineBullet:
		if ln.depth != top.bulletDepth {
			return parseErrf(ErrIndentation, ln.num,
				"bullet at indent %d, items of %q are at %d", ln.depth, top.node.Key, top.bulletDepth)
		}
		payload, err := classify(ln.value, ln.num)
		if err != nil {
			return err
		}
		if payload.kind != lineText {
			return parseErrf(ErrMalformedEnum, ln.num,
				"items of %q are plain strings, got %q", top.node.Key, ln.value)
		}
		return nil
	case lineText:
		if ln.depth <= top.bulletDepth {
			return parseErrf(ErrIndentation, ln.num,
				"indent %d does not match any open level", ln.depth)
		}
		return nil // bullet continuation text
	default:
		return parseErrf(ErrMalformedEnum, ln.num,
			"items of %q are plain strings, got key %q", top.node.Key, ln.key)
	}
}

// attach adds the property described by ln to the container. Bare keys
// open a new kind-pending frame at the given depth.
func attach(top *frame, ln logicalLine, depth int, push func(*frame) error) error {
	switch ln.kind {
	case lineProperty:
		top.node.addChild(&Node{Key: ln.key, Kind: KindString, Description: ln.value})
		return nil
	case linePropertyList:
		values, err := parseList(ln.value, ln.num)
		if err != nil {
			return err
		}
		top.node.addChild(&Node{Key: ln.key, Kind: KindEnum, Enum: values})
		return nil
	case lineBareKey:
		child := &Node{Key: ln.key, Kind: kindPending}
		top.node.addChild(child)
		return push(&frame{node: child, depth: depth, childDepth: -1, bulletDepth: -1, line: ln.num})
	default:
		return parseErrf(ErrMalformedLine, ln.num, "unexpected line %q", ln.value)
	}
}
