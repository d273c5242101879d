package s3

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding - тело ответа не является корректным UTF-8
var ErrInvalidEncoding = errors.New("response body is not valid UTF-8")

// ErrInvalidKeyEncoding - ключ объекта не является корректным UTF-8
var ErrInvalidKeyEncoding = errors.New("object key is not valid UTF-8")

// TransportError - транспорт не смог выполнить запрос
type TransportError struct {
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("transport error: %s", e.Detail)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError - сервер ответил кодом, отличным от 200.
// Тело ответа не сохраняется.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// InvalidArgumentError - аргумент операции нельзя передать в запросе.
// Запрос в этом случае не отправляется.
type InvalidArgumentError struct {
	Argument string
	Value    string
	Err      error
}

func (e *InvalidArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Argument, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Argument, e.Value)
}

func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// RequiredFieldMissingError - в ответе нет обязательного элемента
type RequiredFieldMissingError struct {
	Field string
}

func (e *RequiredFieldMissingError) Error() string {
	return fmt.Sprintf("required field %s is missing", e.Field)
}

// FieldInvalidError - элемент есть, но его значение не разбирается
type FieldInvalidError struct {
	Field string
	Value string
}

func (e *FieldInvalidError) Error() string {
	return fmt.Sprintf("field %s has invalid value %q", e.Field, e.Value)
}
