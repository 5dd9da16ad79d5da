package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("3000", 8080); got != 3000 {
		t.Fatalf("unexpected %d", got)
	}
	if got := ParseIntDefault("", 8080); got != 8080 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("not-a-port", 8080); got != 8080 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestJoinOr(t *testing.T) {
	if got := JoinOr(nil, ", ", "—"); got != "—" {
		t.Fatalf("unexpected %q", got)
	}
	if got := JoinOr([]string{"a", "b"}, ", ", "—"); got != "a, b" {
		t.Fatalf("unexpected %q", got)
	}
}
