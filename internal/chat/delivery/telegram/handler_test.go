package telegram_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	tgDelivery "kurisu-bot/internal/chat/delivery/telegram"
	"kurisu-bot/internal/model"
	"kurisu-bot/internal/scheduler"
	"kurisu-bot/internal/task/usecase"
	"kurisu-bot/pkg/datemath"
	pkgLog "kurisu-bot/pkg/log"
	pkgTelegram "kurisu-bot/pkg/telegram"
)

const allowedChat = int64(42)

type sentMessage struct {
	chatID int64
	text   string
}

type mockSender struct {
	messages chan sentMessage
	actions  chan string
}

func newMockSender() *mockSender {
	return &mockSender{
		messages: make(chan sentMessage, 16),
		actions:  make(chan string, 16),
	}
}

func (m *mockSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.messages <- sentMessage{chatID: chatID, text: text}
	return nil
}

func (m *mockSender) SendChatAction(ctx context.Context, chatID int64, action string) error {
	m.actions <- action
	return nil
}

func (m *mockSender) next(t *testing.T) sentMessage {
	t.Helper()
	select {
	case msg := <-m.messages:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("no message sent")
		return sentMessage{}
	}
}

type mockNotifier struct {
	mu      sync.Mutex
	started []int64
	stopped []int64
}

func (m *mockNotifier) Start(userID int64, fn scheduler.Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, userID)
}

func (m *mockNotifier) Stop(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = append(m.stopped, userID)
}

type mockOrchestrator struct {
	handleFunc func(ctx context.Context, sc model.Scope, text string) string
}

func (m *mockOrchestrator) HandleMessage(ctx context.Context, sc model.Scope, text string) string {
	return m.handleFunc(ctx, sc, text)
}

func (m *mockOrchestrator) ProactivePing(ctx context.Context, sc model.Scope) (string, error) {
	return "", nil
}

type stubRepo struct{}

func (stubRepo) Load(context.Context, int64) ([]model.Task, error) { return nil, nil }
func (stubRepo) Save(context.Context, int64, []model.Task) error   { return nil }

type fixture struct {
	router   *gin.Engine
	sender   *mockSender
	notifier *mockNotifier
}

func newFixture(t *testing.T, orch *mockOrchestrator) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if orch == nil {
		orch = &mockOrchestrator{handleFunc: func(ctx context.Context, sc model.Scope, text string) string {
			return "mock reply"
		}}
	}

	dates, err := datemath.NewParser("UTC")
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}

	sender := newMockSender()
	notifier := &mockNotifier{}
	tasks := usecase.New(pkgLog.NewNop(), stubRepo{})
	h := tgDelivery.New(pkgLog.NewNop(), orch, tasks, sender, notifier, dates, allowedChat)

	router := gin.New()
	router.POST("/webhook/telegram", h.HandleWebhook)

	return &fixture{router: router, sender: sender, notifier: notifier}
}

func (f *fixture) post(t *testing.T, chatID int64, text string) *httptest.ResponseRecorder {
	t.Helper()
	update := pkgTelegram.Update{
		UpdateID: 1,
		Message: &pkgTelegram.Message{
			MessageID: 1,
			From:      &pkgTelegram.User{ID: chatID, Username: "sam"},
			Chat:      &pkgTelegram.Chat{ID: chatID, Type: "private"},
			Date:      time.Now().Unix(),
			Text:      text,
		},
	}
	body, _ := json.Marshal(update)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func TestHandleWebhook_Authorization(t *testing.T) {
	f := newFixture(t, nil)

	w := f.post(t, 999, "/help")
	if w.Code != http.StatusOK {
		t.Fatalf("unauthorized updates still get 200, got %d", w.Code)
	}

	select {
	case msg := <-f.sender.messages:
		t.Errorf("unauthorized chat must be ignored, but sent %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandleWebhook_MalformedBody(t *testing.T) {
	f := newFixture(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader("{not json"))
	f.router.ServeHTTP(w, req)
	if w.Code == http.StatusOK {
		t.Errorf("expected error status for malformed body, got %d", w.Code)
	}
}

func TestHandleWebhook_Start(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, allowedChat, "/start")

	msg := f.sender.next(t)
	if !strings.Contains(msg.text, "Christina here") {
		t.Errorf("unexpected greeting: %q", msg.text)
	}

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	if len(f.notifier.started) != 1 || f.notifier.started[0] != allowedChat {
		t.Errorf("scheduler not started for user: %+v", f.notifier.started)
	}
}

func TestHandleWebhook_TaskCommands(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, allowedChat, "/list_tasks")
	if msg := f.sender.next(t); msg.text != "You have no pending tasks." {
		t.Fatalf("unexpected empty-list reply: %q", msg.text)
	}

	f.post(t, allowedChat, "/add_task write thesis 2026-09-10 15:00")
	msg := f.sender.next(t)
	if !strings.Contains(msg.text, "Task added: write thesis") {
		t.Fatalf("unexpected add reply: %q", msg.text)
	}
	if !strings.Contains(msg.text, "Due date: 2026-09-10 15:00") {
		t.Errorf("due date missing from reply: %q", msg.text)
	}

	f.post(t, allowedChat, "/add_task buy milk")
	if msg := f.sender.next(t); strings.Contains(msg.text, "Due date") {
		t.Errorf("dateless task got a due date: %q", msg.text)
	}

	f.post(t, allowedChat, "/list_tasks")
	msg = f.sender.next(t)
	if !strings.Contains(msg.text, "1. write thesis") || !strings.Contains(msg.text, "2. buy milk") {
		t.Errorf("unexpected list: %q", msg.text)
	}

	f.post(t, allowedChat, "/add_task")
	if msg := f.sender.next(t); !strings.Contains(msg.text, "Please provide a task title") {
		t.Errorf("missing usage reply: %q", msg.text)
	}
}

func TestHandleWebhook_CompleteTaskRenumbering(t *testing.T) {
	f := newFixture(t, nil)

	for _, cmd := range []string{"/add_task first", "/add_task second", "/add_task third"} {
		f.post(t, allowedChat, cmd)
		f.sender.next(t)
	}

	// Complete "first"; afterwards "second" is displayed as number 1.
	f.post(t, allowedChat, "/complete_task 1")
	if msg := f.sender.next(t); msg.text != "Task marked as complete!" {
		t.Fatalf("unexpected complete reply: %q", msg.text)
	}

	f.post(t, allowedChat, "/complete_task 1")
	if msg := f.sender.next(t); msg.text != "Task marked as complete!" {
		t.Fatalf("renumbered complete failed: %q", msg.text)
	}

	f.post(t, allowedChat, "/list_tasks")
	msg := f.sender.next(t)
	if !strings.Contains(msg.text, "1. third") || strings.Contains(msg.text, "second") {
		t.Errorf("wrong task completed: %q", msg.text)
	}

	f.post(t, allowedChat, "/complete_task 9")
	if msg := f.sender.next(t); msg.text != "Invalid task number." {
		t.Errorf("out-of-range number: %q", msg.text)
	}

	f.post(t, allowedChat, "/complete_task abc")
	if msg := f.sender.next(t); msg.text != "Please provide a valid task number." {
		t.Errorf("non-numeric argument: %q", msg.text)
	}
}

func TestHandleWebhook_ClearTasks(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, allowedChat, "/clear_tasks")
	if msg := f.sender.next(t); msg.text != "No completed tasks to clear." {
		t.Fatalf("unexpected reply: %q", msg.text)
	}

	f.post(t, allowedChat, "/add_task done soon")
	f.sender.next(t)
	f.post(t, allowedChat, "/complete_task 1")
	f.sender.next(t)

	f.post(t, allowedChat, "/clear_tasks")
	if msg := f.sender.next(t); msg.text != "Cleared 1 completed tasks." {
		t.Errorf("unexpected clear reply: %q", msg.text)
	}
}

func TestHandleWebhook_Notifications(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, allowedChat, "/pause_notifications")
	if msg := f.sender.next(t); !strings.Contains(msg.text, "stop checking up on you") {
		t.Errorf("unexpected pause reply: %q", msg.text)
	}

	f.post(t, allowedChat, "/resume_notifications")
	if msg := f.sender.next(t); !strings.Contains(msg.text, "not like I wanted") {
		t.Errorf("unexpected resume reply: %q", msg.text)
	}

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	if len(f.notifier.stopped) != 1 || len(f.notifier.started) != 1 {
		t.Errorf("notifier calls: started %v stopped %v", f.notifier.started, f.notifier.stopped)
	}
}

func TestHandleWebhook_FreeText(t *testing.T) {
	var gotText string
	var mu sync.Mutex
	orch := &mockOrchestrator{handleFunc: func(ctx context.Context, sc model.Scope, text string) string {
		mu.Lock()
		gotText = text
		mu.Unlock()
		return "tsundere reply"
	}}
	f := newFixture(t, orch)

	f.post(t, allowedChat, "how are you?")

	if msg := f.sender.next(t); msg.text != "tsundere reply" {
		t.Errorf("unexpected reply: %q", msg.text)
	}

	select {
	case action := <-f.sender.actions:
		if action != pkgTelegram.ActionTyping {
			t.Errorf("unexpected chat action: %q", action)
		}
	case <-time.After(time.Second):
		t.Errorf("typing action never sent")
	}

	mu.Lock()
	defer mu.Unlock()
	if gotText != "how are you?" {
		t.Errorf("orchestrator got %q", gotText)
	}
}

func TestHandleWebhook_UnknownCommand(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, allowedChat, "/selfdestruct")
	if msg := f.sender.next(t); msg.text != "Unknown command. Use /help to see available commands." {
		t.Errorf("unexpected reply: %q", msg.text)
	}
}
