// Package description builds the human-readable explanations
// produced by matchers. A Description is a tree of literal text
// blocks and nested lists; rendering it is a pure fold that
// indents nested lists so composite explanations read as a tree.
package description

import (
	"strconv"
	"strings"
)

// IndentationSize is the number of spaces added for each level
// of nesting.
const IndentationSize = 2

type decoration int

const (
	decorationNone decoration = iota
	decorationBullet
	decorationEnumerate
)

// block is either a literal (one or more lines) or a nested
// list.
type block struct {
	lines  []string
	nested *list
}

type list struct {
	blocks     []block
	decoration decoration
}

// Description is an immutable, renderable explanation. The zero
// value is an empty description. Every method returns a new
// Description and leaves the receiver untouched.
type Description struct {
	elements    list
	indentation int
}

// New returns an empty Description.
func New() Description {
	return Description{}
}

// Text returns a Description holding a single literal block.
// Multi-line text stays one block: under a bullet or an
// enumeration label it gets a single label.
func Text(text string) Description {
	return New().Text(text)
}

// Lines returns a Description with one literal block per
// string.
func Lines(texts ...string) Description {
	d := New()
	for _, t := range texts {
		d = d.Text(t)
	}
	return d
}

// Collect returns a Description with every given Description as
// a nested block, in order.
func Collect(inner ...Description) Description {
	return New().Collect(inner...)
}

// Join combines children with a connective between each
// consecutive pair, for example
//
//	  which is less than 1
//	and
//	  which is greater than 5
func Join(connective string, children ...Description) Description {
	d := New()
	for i, c := range children {
		if i > 0 {
			d = d.Text(connective)
		}
		d = d.Nested(c)
	}
	return d
}

// Text appends a literal block.
func (d Description) Text(text string) Description {
	out := d.clone()
	out.elements.blocks = append(
		out.elements.blocks, block{lines: splitLines(text)},
	)
	return out
}

// Nested appends inner as an indented block.
func (d Description) Nested(inner Description) Description {
	out := d.clone()
	nested := inner.elements.clone()
	out.elements.blocks = append(
		out.elements.blocks, block{nested: &nested},
	)
	return out
}

// Collect appends every inner Description as a nested block.
func (d Description) Collect(inner ...Description) Description {
	out := d
	for _, i := range inner {
		out = out.Nested(i)
	}
	return out
}

// Indent sets the initial indentation to one level.
func (d Description) Indent() Description {
	out := d.clone()
	out.indentation = IndentationSize
	return out
}

// BulletList renders each top-level block behind "* ".
func (d Description) BulletList() Description {
	out := d.clone()
	out.elements.decoration = decorationBullet
	return out
}

// Enumerate renders each top-level block behind a right-aligned
// zero-based index, "0. ", "1. " and so on.
func (d Description) Enumerate() Description {
	out := d.clone()
	out.elements.decoration = decorationEnumerate
	return out
}

// Len returns the number of top-level blocks.
func (d Description) Len() int {
	return len(d.elements.blocks)
}

// IsEmpty reports whether the Description has no blocks.
func (d Description) IsEmpty() bool {
	return d.Len() == 0
}

// IsSingleLine reports whether the Description renders to at
// most one line.
func (d Description) IsSingleLine() bool {
	return !strings.Contains(d.String(), "\n")
}

// String renders the Description.
func (d Description) String() string {
	var sb strings.Builder
	d.elements.render(&sb, d.indentation, "")
	return sb.String()
}

// Render renders d. It is equivalent to d.String().
func Render(d Description) string {
	return d.String()
}

func (d Description) clone() Description {
	return Description{
		elements:    d.elements.clone(),
		indentation: d.indentation,
	}
}

func (l list) clone() list {
	blocks := make([]block, len(l.blocks))
	copy(blocks, l.blocks)
	return list{blocks: blocks, decoration: l.decoration}
}

func (l list) render(sb *strings.Builder, indentation int, prefix string) {
	if len(l.blocks) == 0 {
		return
	}

	padding := l.enumerationPadding()
	l.blocks[0].render(sb, indentation, prefix+l.prefix(0, padding))
	for i, b := range l.blocks[1:] {
		sb.WriteByte('\n')
		b.render(sb, indentation+len(prefix), l.prefix(i+1, padding))
	}
}

func (l list) prefix(index, padding int) string {
	switch l.decoration {
	case decorationBullet:
		return "* "
	case decorationEnumerate:
		label := strconv.Itoa(index)
		return strings.Repeat(" ", padding-len(label)) + label + ". "
	default:
		return ""
	}
}

func (l list) enumerationPadding() int {
	if l.decoration != decorationEnumerate {
		return 0
	}
	if len(l.blocks) > 1 {
		return len(strconv.Itoa(len(l.blocks) - 1))
	}
	return 1
}

func (b block) render(sb *strings.Builder, indentation int, prefix string) {
	if b.nested != nil {
		b.nested.render(
			sb,
			indentation+max(IndentationSize-len(prefix), 0),
			prefix,
		)
		return
	}
	if len(b.lines) == 0 {
		return
	}

	sb.WriteString(strings.Repeat(" ", indentation))
	sb.WriteString(prefix)
	sb.WriteString(b.lines[0])
	continuation := strings.Repeat(" ", indentation+len(prefix))
	for _, line := range b.lines[1:] {
		sb.WriteByte('\n')
		sb.WriteString(continuation)
		sb.WriteString(line)
	}
}

// splitLines mirrors line iteration: a trailing newline does not
// start an empty line and the empty string has no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
