package document

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contentText echoes the content, failing on the marker "bad".
type contentText struct {
	active, peak atomic.Int32
}

func (c *contentText) DecodeText(ctx context.Context, content []byte) (string, error) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if string(content) == "bad" {
		return "", errors.New("corrupt document")
	}
	return string(content), nil
}

func TestExtractBatch_IsolatesFailures(t *testing.T) {
	dec := &contentText{}
	opts := DefaultOptions()
	opts.Concurrency = 3
	e := NewExtractor(Capabilities{PDF: dec}, opts, nil)

	reqs := make([]Request, 10)
	for i := range reqs {
		body := fmt.Sprintf("page %d", i)
		if i == 6 {
			body = "bad"
		}
		reqs[i] = Request{FileName: fmt.Sprintf("doc-%d.pdf", i), Content: []byte(body)}
	}

	results := e.ExtractBatch(context.Background(), reqs)

	require.Len(t, results, len(reqs))
	for i, r := range results {
		assert.Equal(t, reqs[i].FileName, r.FileName, "results keep input order")
		if i == 6 {
			assert.Equal(t, "corrupt document", r.Error)
			assert.Empty(t, r.Text)
			continue
		}
		assert.Empty(t, r.Error)
		assert.Equal(t, fmt.Sprintf("page %d", i), r.Text)
	}
	assert.LessOrEqual(t, dec.peak.Load(), int32(3))
}

func TestExtractBatch_Empty(t *testing.T) {
	e := NewExtractor(Capabilities{}, DefaultOptions(), nil)

	assert.Empty(t, e.ExtractBatch(context.Background(), nil))
}

func TestExtractBatch_CancelledBeforeStart(t *testing.T) {
	e := NewExtractor(Capabilities{PDF: &contentText{}}, DefaultOptions(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := e.ExtractBatch(ctx, []Request{{FileName: "a.pdf"}, {FileName: "b.pdf"}})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, context.Canceled.Error(), r.Error)
		assert.Equal(t, FormatPDF, r.Format)
	}
}
