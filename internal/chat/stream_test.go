package chat

import (
	"reflect"
	"testing"
)

func frame(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n"
}

func TestStreamParserWholeFrames(t *testing.T) {
	var p StreamParser

	deltas, done := p.Feed([]byte(frame("Hello") + frame(" world")))
	if done {
		t.Fatalf("stream finished early")
	}
	if want := []string{"Hello", " world"}; !reflect.DeepEqual(deltas, want) {
		t.Fatalf("deltas = %v, want %v", deltas, want)
	}

	deltas, done = p.Feed([]byte("data: [DONE]\n"))
	if !done || !p.Done() {
		t.Fatalf("terminator not recognized")
	}
	if len(deltas) != 0 {
		t.Fatalf("terminator produced deltas: %v", deltas)
	}
}

func TestStreamParserSplitAcrossChunks(t *testing.T) {
	var p StreamParser
	whole := frame("split me")

	// Feed one byte at a time; the delta must appear exactly once, when
	// the newline lands.
	var got []string
	for i := 0; i < len(whole); i++ {
		deltas, done := p.Feed([]byte{whole[i]})
		got = append(got, deltas...)
		if done {
			t.Fatalf("stream finished at byte %d", i)
		}
		if len(deltas) > 0 && i != len(whole)-1 {
			t.Fatalf("delta emitted before the frame completed (byte %d)", i)
		}
	}

	if want := []string{"split me"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("deltas = %v, want %v", got, want)
	}
}

func TestStreamParserSplitSentinel(t *testing.T) {
	var p StreamParser

	if _, done := p.Feed([]byte("data: [DO")); done {
		t.Fatalf("partial sentinel terminated the stream")
	}
	if _, done := p.Feed([]byte("NE]\n")); !done {
		t.Fatalf("completed sentinel not recognized")
	}
}

func TestStreamParserTolerations(t *testing.T) {
	var p StreamParser

	input := ": keep-alive comment\n" +
		"\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\r\n" +
		"event: ignored\n" +
		"data: {not json\n" +
		"data: {\"choices\":[]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"\"}}]}\n" +
		frame("after")

	deltas, done := p.Feed([]byte(input))
	if done {
		t.Fatalf("stream finished early")
	}
	// The malformed frame, the empty choices, and the empty delta are all
	// dropped without killing the stream.
	if want := []string{"ok", "after"}; !reflect.DeepEqual(deltas, want) {
		t.Fatalf("deltas = %v, want %v", deltas, want)
	}
}

func TestStreamParserIgnoresInputAfterDone(t *testing.T) {
	var p StreamParser

	p.Feed([]byte("data: [DONE]\n"))
	deltas, done := p.Feed([]byte(frame("late")))
	if !done {
		t.Fatalf("done flag lost")
	}
	if len(deltas) != 0 {
		t.Fatalf("post-terminator input produced deltas: %v", deltas)
	}
}

func TestStreamParserBuffersIncompleteTail(t *testing.T) {
	var p StreamParser

	deltas, _ := p.Feed([]byte(frame("first") + `data: {"choices":[{"del`))
	if want := []string{"first"}; !reflect.DeepEqual(deltas, want) {
		t.Fatalf("deltas = %v, want %v", deltas, want)
	}

	deltas, _ = p.Feed([]byte(`ta":{"content":"second"}}]}` + "\n"))
	if want := []string{"second"}; !reflect.DeepEqual(deltas, want) {
		t.Fatalf("deltas = %v, want %v", deltas, want)
	}
}
