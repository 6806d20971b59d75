package stdouthost_test

import (
	"bytes"
	"testing"

	"github.com/funvibe/umo/internal/rthost/stdouthost"
)

func TestPutsWritesOneLinePerCall(t *testing.T) {
	var buf bytes.Buffer
	h := stdouthost.New(&buf)
	h.Puts("hello")
	h.Puts("world")
	want := "hello\nworld\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
