package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/gateway/ws"
	"github.com/dohr-michael/quickprompt/internal/prompt"
)

type wsConn struct {
	t    *testing.T
	conn *websocket.Conn
	seq  int
}

func dial(t *testing.T, ts *httptest.Server) *wsConn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return &wsConn{t: t, conn: conn}
}

func (c *wsConn) read() ws.Frame {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	f, err := ws.UnmarshalFrame(data)
	if err != nil {
		c.t.Fatalf("unmarshal: %v", err)
	}
	return f
}

// call sends a request and returns its response, skipping event frames.
func (c *wsConn) call(method ws.Method, sessionID string, params any) ws.Frame {
	c.t.Helper()
	c.seq++
	id := fmt.Sprintf("req-%d", c.seq)
	f, err := ws.NewRequestFrame(id, method, sessionID, params)
	if err != nil {
		c.t.Fatalf("request frame: %v", err)
	}
	data, _ := ws.MarshalFrame(f)
	if err := c.conn.Write(context.Background(), websocket.MessageText, data); err != nil {
		c.t.Fatalf("write: %v", err)
	}
	for {
		res := c.read()
		if res.Type == ws.FrameTypeResponse && res.ID == id {
			return res
		}
	}
}

func (c *wsConn) open() string {
	c.t.Helper()
	res := c.call(ws.MethodOpenSession, "", nil)
	if res.OK == nil || !*res.OK {
		c.t.Fatalf("open_session failed: %s", res.Error)
	}
	var opened ws.SessionOpened
	if err := json.Unmarshal(res.Payload, &opened); err != nil {
		c.t.Fatalf("decode open payload: %v", err)
	}
	var view prompt.View
	if err := json.Unmarshal(opened.View, &view); err != nil {
		c.t.Fatalf("decode view: %v", err)
	}
	if view.State != prompt.StateGenerate {
		c.t.Fatalf("unexpected initial view %+v", view)
	}
	return opened.SessionID
}

func TestWSSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, testDataset())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c := dial(t, ts)
	id := c.open()

	if res := c.call(ws.MethodClick, id, nil); !*res.OK {
		t.Fatalf("click failed: %s", res.Error)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("timeout waiting for completed reveal")
		}
		f := c.read()
		if f.Type != ws.FrameTypeEvent || f.Event != string(events.EventViewChanged) {
			continue
		}
		if f.SessionID != id {
			t.Fatalf("event for foreign session %q", f.SessionID)
		}
		p, ok := events.DecodePayload[events.ViewChangedPayload](f.Payload)
		if !ok {
			t.Fatal("bad view payload")
		}
		if p.View.State == prompt.StateRevise && p.View.Output == "Hello world " {
			break
		}
	}

	if res := c.call(ws.MethodClick, id, nil); !*res.OK {
		t.Fatalf("click failed: %s", res.Error)
	}
	res := c.call(ws.MethodChoose, id, ws.ChooseParams{Item: "german"})
	if !*res.OK {
		t.Fatalf("choose failed: %s", res.Error)
	}
	var view prompt.View
	if err := json.Unmarshal(res.Payload, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Language != "de" || view.TopicKey != "x" || view.MenuOpen {
		t.Errorf("unexpected view after choose %+v", view)
	}

	if res := c.call(ws.MethodCloseSession, id, nil); !*res.OK {
		t.Fatalf("close_session failed: %s", res.Error)
	}
	if _, err := srv.manager.Get(id); err == nil {
		t.Error("session should be gone after close_session")
	}
}

func TestWSRequestErrors(t *testing.T) {
	srv := newTestServer(t, testDataset())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c := dial(t, ts)
	id := c.open()

	tests := []struct {
		method ws.Method
		params any
		want   string
	}{
		{ws.MethodChoose, ws.ChooseParams{Item: "Expand"}, prompt.ErrMenuClosed.Error()},
		{ws.MethodChoose, ws.ChooseParams{Item: "Translate"}, prompt.ErrUnknownItem.Error()},
		{ws.Method("dance"), nil, "unknown method"},
	}
	for _, tt := range tests {
		res := c.call(tt.method, id, tt.params)
		if res.OK == nil || *res.OK {
			t.Errorf("%s: expected failure", tt.method)
			continue
		}
		if !strings.Contains(res.Error, tt.want) {
			t.Errorf("%s: error %q does not mention %q", tt.method, res.Error, tt.want)
		}
	}
}

func TestWSSessionsArePrivate(t *testing.T) {
	srv := newTestServer(t, testDataset())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	owner := dial(t, ts)
	other := dial(t, ts)
	id := owner.open()
	otherID := other.open()

	res := other.call(ws.MethodClick, id, nil)
	if *res.OK {
		t.Fatal("a connection must not drive another connection's session")
	}

	if res := owner.call(ws.MethodAcknowledge, id, ws.AcknowledgeParams{OK: true}); !*res.OK {
		t.Fatalf("acknowledge failed: %s", res.Error)
	}
	// The other connection only ever sees its own session's events.
	if res := other.call(ws.MethodGetView, otherID, nil); !*res.OK {
		t.Fatalf("get_view failed: %s", res.Error)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	for {
		_, data, err := other.conn.Read(ctx)
		if err != nil {
			break
		}
		f, _ := ws.UnmarshalFrame(data)
		if f.SessionID == id {
			t.Fatalf("leaked event %s for foreign session", f.Event)
		}
	}
}
