package s3

import (
	"unicode/utf8"

	"s3client/markup"
)

// Namespace - пространство имен документов S3 API
const Namespace = "http://s3.amazonaws.com/doc/2006-03-01/"

// parseBody проверяет кодировку тела и разбирает его в дерево
func parseBody(resp *RawResponse) (*markup.Node, error) {
	if !utf8.Valid(resp.Body) {
		return nil, ErrInvalidEncoding
	}
	return markup.Parse(string(resp.Body))
}

// requiredText возвращает текст обязательного дочернего элемента
func requiredText(n *markup.Node, name string) (string, error) {
	child, ok := n.Child(name, Namespace)
	if !ok {
		return "", &RequiredFieldMissingError{Field: name}
	}
	return child.Text(), nil
}

// optionalText возвращает nil, если элемента нет
func optionalText(n *markup.Node, name string) *string {
	child, ok := n.Child(name, Namespace)
	if !ok {
		return nil
	}
	text := child.Text()
	return &text
}
