package mail

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Connect(ctx context.Context) (Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Client), args.Error(1)
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Mail(from string) error { return m.Called(from).Error(0) }
func (m *mockClient) Rcpt(to string) error { return m.Called(to).Error(0) }
func (m *mockClient) Quit() error { return m.Called().Error(0) }
func (m *mockClient) Close() error { return m.Called().Error(0) }

func (m *mockClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

type bufferWriter struct {
	data   []byte
	closed bool
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *bufferWriter) Close() error {
	w.closed = true
	return nil
}

func TestSMTPSender_Send(t *testing.T) {
	msg := Message{To: "ann@example.com", Subject: "Confirm", Body: "click here"}

	t.Run("delivers message", func(t *testing.T) {
		transport := new(mockTransport)
		client := new(mockClient)
		writer := &bufferWriter{}

		transport.On("Connect", mock.Anything).Return(client, nil).Once()
		client.On("Mail", "noreply@example.com").Return(nil).Once()
		client.On("Rcpt", "ann@example.com").Return(nil).Once()
		client.On("Data").Return(writer, nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		sender := NewSMTPSender(transport, "noreply@example.com", zap.NewNop())
		require.NoError(t, sender.Send(context.Background(), msg))

		assert.True(t, writer.closed)
		body := string(writer.data)
		assert.Contains(t, body, "To: ann@example.com\r\n")
		assert.Contains(t, body, "Subject: Confirm\r\n")
		assert.Contains(t, body, "\r\n\r\nclick here")
		transport.AssertExpectations(t)
		client.AssertExpectations(t)
	})

	t.Run("connect failure", func(t *testing.T) {
		transport := new(mockTransport)
		transport.On("Connect", mock.Anything).Return(nil, errors.New("connection refused")).Once()

		sender := NewSMTPSender(transport, "noreply@example.com", zap.NewNop())
		err := sender.Send(context.Background(), msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("recipient rejected", func(t *testing.T) {
		transport := new(mockTransport)
		client := new(mockClient)
		transport.On("Connect", mock.Anything).Return(client, nil).Once()
		client.On("Mail", "noreply@example.com").Return(nil).Once()
		client.On("Rcpt", "ann@example.com").Return(errors.New("550 no such user")).Once()
		client.On("Close").Return(nil).Once()

		sender := NewSMTPSender(transport, "noreply@example.com", zap.NewNop())
		err := sender.Send(context.Background(), msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rcpt to")
		client.AssertNotCalled(t, "Data")
	})
}

func TestLogSender_Send(t *testing.T) {
	assert.NoError(t, NewLogSender(zap.NewNop()).Send(context.Background(), Message{To: "a@b.c"}))
}
