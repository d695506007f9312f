package frrmi

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestClient(t *testing.T, clientPath, agentPath string) *Client {
	t.Helper()
	c, err := NewClient(clientPath, agentPath)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func newTestAgent(t *testing.T, path, reply string) *fakeAgent {
	t.Helper()
	a, err := newFakeAgent(path, reply)
	if err != nil {
		t.Fatalf("newFakeAgent: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApplySucceedsOnOkReply(t *testing.T) {
	dir := t.TempDir()
	clientPath := filepath.Join(dir, "client.sock")
	agentPath := filepath.Join(dir, "agent.sock")

	agent := newTestAgent(t, agentPath, OkReply)
	client := newTestClient(t, clientPath, agentPath)

	done := make(chan error, 1)
	go func() { done <- agent.serveOne() }()

	payload := []byte("router bgp 65000\n")
	if err := client.Apply(42, payload); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serveOne: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fake agent")
	}

	if agent.lastGen != 42 {
		t.Errorf("lastGen = %d, want 42", agent.lastGen)
	}
	if string(agent.lastPayload) != string(payload) {
		t.Errorf("lastPayload = %q, want %q", agent.lastPayload, payload)
	}
}

func TestApplyReturnsReloadErrorOnNonOkReply(t *testing.T) {
	dir := t.TempDir()
	clientPath := filepath.Join(dir, "client.sock")
	agentPath := filepath.Join(dir, "agent.sock")

	agent := newTestAgent(t, agentPath, "Error: no such vrf")
	client := newTestClient(t, clientPath, agentPath)

	go func() { _ = agent.serveOne() }()

	err := client.Apply(7, []byte("bad config"))
	if err == nil {
		t.Fatal("Apply: expected error, got nil")
	}
	reloadErr, ok := err.(*ReloadError)
	if !ok {
		t.Fatalf("Apply error type = %T, want *ReloadError", err)
	}
	if reloadErr.Reply != "Error: no such vrf" {
		t.Errorf("Reply = %q, want %q", reloadErr.Reply, "Error: no such vrf")
	}
}

func TestProbeReportsAgentLiveness(t *testing.T) {
	dir := t.TempDir()
	clientPath := filepath.Join(dir, "client.sock")
	agentPath := filepath.Join(dir, "agent.sock")

	agent := newTestAgent(t, agentPath, OkReply)
	client := newTestClient(t, clientPath, agentPath)

	go func() { _ = agent.serveOne() }()

	if !client.Probe() {
		t.Error("Probe() = false, want true for an Ok-replying agent")
	}
	if agent.lastPayload == nil || string(agent.lastPayload) != Keepalive {
		t.Errorf("lastPayload = %q, want %q", agent.lastPayload, Keepalive)
	}
	if agent.lastGen != 0 {
		t.Errorf("lastGen = %d, want 0 for a keepalive probe", agent.lastGen)
	}
}

func TestProbeFailsWhenPeerUnreachable(t *testing.T) {
	dir := t.TempDir()
	clientPath := filepath.Join(dir, "client.sock")
	agentPath := filepath.Join(dir, "agent.sock")

	client := newTestClient(t, clientPath, agentPath)

	if client.Probe() {
		t.Error("Probe() = true, want false when no agent is listening")
	}
}
