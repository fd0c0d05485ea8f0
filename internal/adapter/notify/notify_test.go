package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports/mocks"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testWithdrawal() *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Coin:    "TON",
		Address: "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N",
		Amount:  1500,
		Status:  domain.WithdrawalStatusPending,
	}
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	err     error
	release chan struct{} // when set, Send blocks until it is closed
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) messages() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

func waitSent(t *testing.T, n *Telegram) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, n.Wait(ctx))
}

func TestTelegram_NotifyWithdrawal(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegram(sender, -100123, zerolog.New(io.Discard))
	w := testWithdrawal()

	require.NoError(t, n.NotifyWithdrawal(context.Background(), w))
	waitSent(t, n)
	sent := sender.messages()
	require.Len(t, sent, 1)

	msg, ok := sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, w.ID.String())
	assert.Contains(t, msg.Text, "1500 points")
	assert.Contains(t, msg.Text, w.Address)
}

func TestTelegram_EscapesAddress(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegram(sender, 1, zerolog.New(io.Discard))
	w := testWithdrawal()
	w.Address = "<script>"

	require.NoError(t, n.NotifyWithdrawal(context.Background(), w))
	waitSent(t, n)
	msg := sender.messages()[0].(tgbotapi.MessageConfig)
	assert.NotContains(t, msg.Text, "<script>")
	assert.Contains(t, msg.Text, "&lt;script&gt;")
}

func TestTelegram_SendErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	n := NewTelegram(&fakeSender{err: errors.New("forbidden")}, 1, zerolog.New(&buf))

	require.NoError(t, n.NotifyWithdrawal(context.Background(), testWithdrawal()))
	waitSent(t, n)
	assert.Contains(t, buf.String(), "forbidden")
	assert.Contains(t, buf.String(), "telegram notification failed")
}

func TestTelegram_StalledSenderDoesNotBlock(t *testing.T) {
	sender := &fakeSender{release: make(chan struct{})}
	n := NewTelegram(sender, 1, zerolog.New(io.Discard))

	returned := make(chan error, 1)
	go func() { returned <- n.NotifyWithdrawal(context.Background(), testWithdrawal()) }()

	select {
	case err := <-returned:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("NotifyWithdrawal blocked on the Bot API")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, n.Wait(ctx), context.DeadlineExceeded)

	close(sender.release)
	waitSent(t, n)
	assert.Len(t, sender.messages(), 1)
}

type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func okResponse(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}
}

func TestWebhook_DeliversSignedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	sigSvc.EXPECT().Sign("whsec", gomock.Any()).Return("sig-123")

	bodies := make(chan []byte, 1)
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "https://ops.example.com/hook", req.URL.String())
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		b, _ := io.ReadAll(req.Body)
		bodies <- b
		return okResponse(http.StatusOK), nil
	}}

	n := NewWebhook("https://ops.example.com/hook", "whsec", sigSvc, client, nil, zerolog.New(io.Discard))
	w := testWithdrawal()
	require.NoError(t, n.NotifyWithdrawal(context.Background(), w))

	select {
	case b := <-bodies:
		var p WebhookPayload
		require.NoError(t, json.Unmarshal(b, &p))
		assert.Equal(t, "withdrawal.requested", p.EventType)
		assert.Equal(t, "sig-123", p.Signature)
		assert.Equal(t, w.ID.String(), p.Data.WithdrawalID)
		assert.Equal(t, int64(1500), p.Data.Amount)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestWebhook_RetriesUntilSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	sigSvc.EXPECT().Sign(gomock.Any(), gomock.Any()).Return("sig")

	var calls atomic.Int32
	done := make(chan struct{})
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		switch calls.Add(1) {
		case 1:
			return nil, errors.New("connection refused")
		case 2:
			return okResponse(http.StatusBadGateway), nil
		default:
			close(done)
			return okResponse(http.StatusNoContent), nil
		}
	}}

	retries := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	n := NewWebhook("http://ops.local/hook", "s", sigSvc, client, retries, zerolog.New(io.Discard))
	require.NoError(t, n.NotifyWithdrawal(context.Background(), testWithdrawal()))

	select {
	case <-done:
		assert.Equal(t, int32(3), calls.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("webhook retries did not reach success")
	}
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) NotifyWithdrawal(context.Context, *domain.Withdrawal) error {
	s.calls++
	return s.err
}

func TestCombine(t *testing.T) {
	assert.IsType(t, Noop{}, Combine())
	assert.NoError(t, Combine().NotifyWithdrawal(context.Background(), testWithdrawal()))

	single := &stubNotifier{}
	assert.Same(t, single, Combine(single))

	failing := &stubNotifier{err: errors.New("down")}
	ok := &stubNotifier{}
	err := Combine(failing, ok).NotifyWithdrawal(context.Background(), testWithdrawal())
	assert.ErrorContains(t, err, "down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
}
