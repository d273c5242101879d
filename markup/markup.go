// Package markup разбирает XML-документ в дерево узлов с пространствами имен.
// Узел умеет искать дочерние элементы по локальному имени и пространству
// имен и отдавать свое текстовое содержимое.
package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node - элемент документа
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	children []*Node
	text     strings.Builder
}

// ParseError - документ не является корректным XML.
// Line и Column указывают на позицию, где разбор остановился.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("XML Error: Line: %d Column: %d Msg: %s", e.Line, e.Column, e.Message)
}

// Parse разбирает текст и возвращает корневой элемент
func Parse(text string) (*Node, error) {
	d := xml.NewDecoder(strings.NewReader(text))

	var root *Node
	var stack []*Node

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newParseError(d, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name, Attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, newParseError(d, errors.New("multiple root elements"))
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		line, col := d.InputPos()
		return nil, &ParseError{Line: line, Column: col, Message: "unexpected end of document"}
	}
	return root, nil
}

func newParseError(d *xml.Decoder, err error) *ParseError {
	line, col := d.InputPos()
	msg := err.Error()

	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		line = syntaxErr.Line
		msg = syntaxErr.Msg
	}
	return &ParseError{Line: line, Column: col, Message: msg}
}

// matches сравнивает имя узла. Пустой ns совпадает с любым пространством имен.
func (n *Node) matches(local, ns string) bool {
	return n.Name.Local == local && (ns == "" || n.Name.Space == ns)
}

// Child возвращает первый дочерний элемент с указанным именем
func (n *Node) Child(local, ns string) (*Node, bool) {
	for _, c := range n.children {
		if c.matches(local, ns) {
			return c, true
		}
	}
	return nil, false
}

// Children возвращает все дочерние элементы с указанным именем в порядке документа
func (n *Node) Children(local, ns string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.matches(local, ns) {
			out = append(out, c)
		}
	}
	return out
}

// Text возвращает текстовое содержимое узла (без текста вложенных элементов)
func (n *Node) Text() string {
	return n.text.String()
}
