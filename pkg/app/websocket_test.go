package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/note-review-service/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

type wsProviderStub struct{}

func (wsProviderStub) Logger() *zap.Logger           { return zap.NewNop() }
func (wsProviderStub) Validator() ValidatorInterface { return nil }
func (wsProviderStub) IsReturnSuccess() bool         { return false }
func (wsProviderStub) GetAuthTokenKey() string       { return "test-key" }

func newTestServer() *WebsocketServer {
	return NewWebsocketServer(WSConfig{}, wsProviderStub{})
}

func TestParseWSFrame(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantOK   bool
		wantType string
		wantData string
	}{
		{
			name:     "action with json payload",
			raw:      `NoteModify|{"path":"a.md"}`,
			wantOK:   true,
			wantType: "NoteModify",
			wantData: `{"path":"a.md"}`,
		},
		{
			name:     "payload containing separator",
			raw:      `ReviewAddLink|{"note":"a|b.md"}`,
			wantOK:   true,
			wantType: "ReviewAddLink",
			wantData: `{"note":"a|b.md"}`,
		},
		{
			name:     "empty payload",
			raw:      "NoteSync|",
			wantOK:   true,
			wantType: "NoteSync",
			wantData: "",
		},
		{
			name:   "missing separator",
			raw:    "NoteModify",
			wantOK: false,
		},
		{
			name:   "empty frame",
			raw:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := parseWSFrame(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("parseWSFrame(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if msg.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", msg.Type, tt.wantType)
			}
			if string(msg.Data) != tt.wantData {
				t.Errorf("Data = %q, want %q", string(msg.Data), tt.wantData)
			}
		})
	}
}

func TestBuildWSFrame(t *testing.T) {
	t.Run("action prefix", func(t *testing.T) {
		payload := buildWSFrame(code.Success.Clone(), "Authorization")
		raw := string(payload)
		if !strings.HasPrefix(raw, "Authorization|") {
			t.Fatalf("frame = %q, want Authorization| prefix", raw)
		}

		var res Res
		if err := sonic.Unmarshal([]byte(strings.TrimPrefix(raw, "Authorization|")), &res); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if res.Code != code.Success.Code() {
			t.Errorf("Code = %d, want %d", res.Code, code.Success.Code())
		}
		if !res.Status {
			t.Error("Status = false, want true")
		}
	})

	t.Run("no action means bare json", func(t *testing.T) {
		payload := buildWSFrame(code.Success.Clone(), "")
		if payload[0] != '{' {
			t.Fatalf("frame = %q, want bare JSON object", string(payload))
		}
	})

	t.Run("details joined and vault carried", func(t *testing.T) {
		c := code.ErrorInvalidParams.Clone().WithDetails("path is required", "vault is required").WithVault("Main")
		payload := buildWSFrame(c, "NoteModify")

		var res Res
		if err := sonic.Unmarshal([]byte(strings.TrimPrefix(string(payload), "NoteModify|")), &res); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if res.Details != "path is required,vault is required" {
			t.Errorf("Details = %v, want joined string", res.Details)
		}
		if res.Vault != "Main" {
			t.Errorf("Vault = %v, want Main", res.Vault)
		}
		if res.Status {
			t.Error("Status = true, want false")
		}
	})
}

func TestWebsocketServerClientRegistry(t *testing.T) {
	w := newTestServer()

	ctx, cancel := context.WithCancel(context.Background())
	c := &WebsocketClient{
		conn:   &gws.Conn{},
		srv:    w,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		User:   &UserEntity{UID: 42},
	}

	w.addClient(c)
	if w.clientCount() != 1 {
		t.Fatalf("clientCount = %d, want 1", w.clientCount())
	}
	if got := w.getClient(c.conn); got != c {
		t.Fatal("getClient did not return the registered client")
	}

	w.addUserClient(c)
	if w.userClientCount(42) != 1 {
		t.Fatalf("userClientCount(42) = %d, want 1", w.userClientCount(42))
	}

	w.removeUserClient(c)
	if w.userClientCount(42) != 0 {
		t.Fatalf("userClientCount(42) = %d after remove, want 0", w.userClientCount(42))
	}

	w.removeClient(c.conn)
	if w.clientCount() != 0 {
		t.Fatalf("clientCount = %d after remove, want 0", w.clientCount())
	}
}

func TestWebsocketClientMarkClosed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &WebsocketClient{
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}

	c.markClosed()
	c.markClosed() // 幂等

	select {
	case <-c.done:
	default:
		t.Error("done channel should be closed")
	}
	if c.Context().Err() == nil {
		t.Error("context should be canceled")
	}
}

// 并发注册/注销下用户连接表保持一致
func TestProperty_UserClientRegistryConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("registry count matches live clients under concurrency", prop.ForAll(
		func(clientCount int) bool {
			w := newTestServer()

			clients := make([]*WebsocketClient, clientCount)
			for i := range clients {
				ctx, cancel := context.WithCancel(context.Background())
				clients[i] = &WebsocketClient{
					conn:   &gws.Conn{},
					srv:    w,
					done:   make(chan struct{}),
					ctx:    ctx,
					cancel: cancel,
					User:   &UserEntity{UID: int64(i % 3)}, // 三个用户分摊连接
				}
			}

			var wg sync.WaitGroup
			for _, c := range clients {
				wg.Add(1)
				go func(c *WebsocketClient) {
					defer wg.Done()
					w.addClient(c)
					w.addUserClient(c)
				}(c)
			}
			wg.Wait()

			if w.clientCount() != clientCount {
				return false
			}

			total := 0
			for uid := int64(0); uid < 3; uid++ {
				total += w.userClientCount(uid)
			}
			if total != clientCount {
				return false
			}

			// 注销一半
			for _, c := range clients[:clientCount/2] {
				wg.Add(1)
				go func(c *WebsocketClient) {
					defer wg.Done()
					w.removeUserClient(c)
					w.removeClient(c.conn)
				}(c)
			}
			wg.Wait()

			return w.clientCount() == clientCount-clientCount/2
		},
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t)
}

func TestPingLoopStopsOnClose(t *testing.T) {
	w := newTestServer()
	w.config.PingInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	c := &WebsocketClient{
		conn:   &gws.Conn{},
		srv:    w,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	c.markClosed()

	finished := make(chan struct{})
	go func() {
		c.PingLoop()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("PingLoop did not stop after close")
	}
}
