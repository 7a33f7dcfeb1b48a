package mocks

import (
	"context"
	"io"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type MenuCache struct {
	mock.Mock
}

func NewMenuCache(t testingT) *MenuCache {
	m := &MenuCache{}
	register(&m.Mock, t)
	return m
}

func (_m *MenuCache) GetMenuJSON(ctx context.Context, eventID string) ([]byte, bool, error) {
	ret := _m.Called(ctx, eventID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *MenuCache) SetMenuJSON(ctx context.Context, eventID string, menuJSON []byte) error {
	ret := _m.Called(ctx, eventID, menuJSON)
	return ret.Error(0)
}

func (_m *MenuCache) Invalidate(ctx context.Context, eventID string) error {
	ret := _m.Called(ctx, eventID)
	return ret.Error(0)
}

type Revalidator struct {
	mock.Mock
}

func NewRevalidator(t testingT) *Revalidator {
	m := &Revalidator{}
	register(&m.Mock, t)
	return m
}

func (_m *Revalidator) MenuStale(ctx context.Context, eventID, reason string) error {
	ret := _m.Called(ctx, eventID, reason)
	return ret.Error(0)
}

type TextExtractor struct {
	mock.Mock
}

func NewTextExtractor(t testingT) *TextExtractor {
	m := &TextExtractor{}
	register(&m.Mock, t)
	return m
}

func (_m *TextExtractor) ExtractText(ctx context.Context, filename string, pdf io.Reader) (string, error) {
	ret := _m.Called(ctx, filename, pdf)
	return ret.String(0), ret.Error(1)
}

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t testingT) *MessageReader {
	m := &MessageReader{}
	register(&m.Mock, t)
	return m
}

func (_m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(kafka.Message), ret.Error(1)
}

type MessageWriter struct {
	mock.Mock
}

func NewMessageWriter(t testingT) *MessageWriter {
	m := &MessageWriter{}
	register(&m.Mock, t)
	return m
}

func (_m *MessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := []interface{}{ctx}
	for _, msg := range msgs {
		args = append(args, msg)
	}
	ret := _m.Called(args...)
	return ret.Error(0)
}
