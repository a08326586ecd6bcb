// Package workflow adapts the Extractor to workflow-engine items: each item
// carries a JSON payload and optional named binary attachments, and produces
// exactly one output item.
package workflow

import (
	"context"
	"encoding/base64"
	"sort"

	"go.uber.org/zap"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
)

const (
	// DefaultBinaryKey is the attachment preferred when an item has several.
	DefaultBinaryKey = "data"

	defaultFileName = "unnamed_file"
)

// NoBinaryMessage is the error reported for items without an attachment.
const NoBinaryMessage = "No file found in input binary data"

// BinaryData is a base64 encoded attachment.
type BinaryData struct {
	Data     string `json:"data"`
	FileName string `json:"fileName,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
}

// Item is one unit of workflow data.
type Item struct {
	JSON   map[string]any        `json:"json"`
	Binary map[string]BinaryData `json:"binary,omitempty"`
}

// Node extracts the attachment of every input item.
type Node struct {
	extractor *document.Extractor
	logger    *zap.Logger
}

// NewNode creates a node. File banners are always on for node output.
func NewNode(extractor *document.Extractor, logger *zap.Logger) *Node {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := extractor.Options()
	opts.FileBanner = true
	return &Node{extractor: extractor.WithOptions(opts), logger: logger}
}

// pending ties an input position to its extraction request.
type pending struct {
	index int
	req   document.Request
}

// Execute returns one item per input item, in input order.
func (n *Node) Execute(ctx context.Context, items []Item) []Item {
	out := make([]Item, len(items))

	var work []pending
	for i, item := range items {
		bin, ok := pickBinary(item.Binary)
		if !ok {
			out[i] = Item{JSON: map[string]any{"error": NoBinaryMessage}}
			continue
		}

		name := bin.FileName
		if name == "" {
			name = defaultFileName
		}

		content, err := base64.StdEncoding.DecodeString(bin.Data)
		if err != nil {
			n.logger.Warn("invalid attachment encoding", zap.Int("item", i), zap.String("file", name), zap.Error(err))
			out[i] = Item{JSON: map[string]any{"file": name, "error": "invalid base64 data: " + err.Error()}}
			continue
		}

		work = append(work, pending{
			index: i,
			req:   document.Request{FileName: name, MIMEHint: bin.MIMEType, Content: content},
		})
	}

	reqs := make([]document.Request, len(work))
	for i, p := range work {
		reqs[i] = p.req
	}

	results := n.extractor.ExtractBatch(ctx, reqs)
	for i, res := range results {
		out[work[i].index] = resultItem(res)
	}

	n.logger.Info("workflow batch complete", zap.Int("items", len(items)), zap.Int("extracted", len(work)))
	return out
}

func resultItem(res document.Result) Item {
	if res.Failed() {
		return Item{JSON: map[string]any{"file": res.FileName, "error": res.Error}}
	}
	return Item{JSON: map[string]any{"file": res.FileName, "extracted_text": res.Text}}
}

// pickBinary prefers DefaultBinaryKey and otherwise takes the first key in
// sorted order so the choice is stable.
func pickBinary(binary map[string]BinaryData) (BinaryData, bool) {
	if len(binary) == 0 {
		return BinaryData{}, false
	}
	if bin, ok := binary[DefaultBinaryKey]; ok {
		return bin, true
	}

	keys := make([]string, 0, len(binary))
	for k := range binary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return binary[keys[0]], true
}
