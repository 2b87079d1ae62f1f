package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls   []string
	readArg string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Users(ctx context.Context) error {
	f.calls = append(f.calls, "users")
	return nil
}
func (f *fakeExec) Inbox(ctx context.Context) error {
	f.calls = append(f.calls, "inbox")
	return nil
}
func (f *fakeExec) Outbox(ctx context.Context) error {
	f.calls = append(f.calls, "outbox")
	return nil
}
func (f *fakeExec) Send(ctx context.Context) error { f.calls = append(f.calls, "send"); return nil }
func (f *fakeExec) Read(ctx context.Context, arg string) error {
	f.calls = append(f.calls, "read")
	f.readArg = arg
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"users",
		"inbox",
		"send",
		"read 42",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "users", "inbox", "send", "read"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
	if exec.readArg != "42" {
		t.Fatalf("read arg: got %q, want %q", exec.readArg, "42")
	}
}

func TestRunREPL_EmptyLineAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\n   \nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
