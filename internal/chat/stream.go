package chat

import (
	"bytes"
	"encoding/json"
)

const doneSentinel = "[DONE]"

// StreamParser incrementally decodes an SSE token stream of the form
// `"data: " <json> "\n"`, terminated by a literal [DONE] payload. Input
// arrives in arbitrary chunks; a frame split across two chunks is carried
// over and parsed once its newline lands. Comment lines (leading ':'),
// blank lines, and trailing '\r' are tolerated per the SSE grammar.
type StreamParser struct {
	buf  []byte
	done bool
}

// Feed consumes a chunk and returns the text deltas completed by it, plus
// whether the end-of-stream sentinel has been seen. Input after the
// sentinel is ignored.
func (p *StreamParser) Feed(chunk []byte) ([]string, bool) {
	if p.done {
		return nil, true
	}

	p.buf = append(p.buf, chunk...)

	var deltas []string
	for {
		idx := bytes.IndexByte(p.buf, '\n')
		if idx < 0 {
			break
		}

		line := p.buf[:idx]
		p.buf = p.buf[idx+1:]

		delta, done, ok := parseFrame(line)
		if done {
			p.done = true
			p.buf = nil
			return deltas, true
		}
		if ok && delta != "" {
			deltas = append(deltas, delta)
		}
	}

	return deltas, false
}

// Done reports whether the stream terminator has been consumed.
func (p *StreamParser) Done() bool {
	return p.done
}

type streamFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func parseFrame(line []byte) (delta string, done, ok bool) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 || line[0] == ':' {
		return "", false, false
	}

	payload, found := bytes.CutPrefix(line, []byte("data: "))
	if !found {
		return "", false, false
	}

	payload = bytes.TrimSpace(payload)
	if string(payload) == doneSentinel {
		return "", true, false
	}

	var frame streamFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		// A malformed frame is dropped rather than killing the stream.
		return "", false, false
	}
	if len(frame.Choices) == 0 {
		return "", false, false
	}
	return frame.Choices[0].Delta.Content, false, true
}
