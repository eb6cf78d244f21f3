// Package exec provides a refcrawl.Extractor that runs an external
// extractor command per document. The subprocess boundary gives the
// crawl real isolation: a crash or runaway parse in the extractor
// kills one process, not the crawl, and a context timeout hard-kills
// the subprocess instead of abandoning a goroutine.
package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/specworks/refcrawl"
)

// Ensure Extractor implements refcrawl.Extractor at compile time.
var _ refcrawl.Extractor = (*Extractor)(nil)

// Extractor runs an external command for each document. The spec
// descriptor is written to the command's stdin as one JSON document
// and the extract result is read from its stdout as one JSON document.
type Extractor struct {
	command string
	args    []string
}

// NewExtractor creates an Extractor that invokes command with args for
// every document.
func NewExtractor(command string, args ...string) *Extractor {
	return &Extractor{command: command, args: args}
}

// Extract runs the external command for one spec. Cancelling the
// context kills the subprocess.
func (e *Extractor) Extract(ctx context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
	input, err := json.Marshal(spec)
	if err != nil {
		return nil, refcrawl.Errorf(refcrawl.EINTERNAL, "encoding spec descriptor: %v", err)
	}

	cmd := exec.CommandContext(ctx, e.command, e.args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// The context deadline surfaces as a kill; report it as a
		// timeout rather than a generic subprocess failure.
		if ctx.Err() != nil {
			return nil, refcrawl.Errorf(refcrawl.ETIMEOUT, "extractor command timed out")
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, refcrawl.Errorf(refcrawl.EINTERNAL, "extractor command failed: %s", detail)
	}

	var res refcrawl.ExtractResult
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, refcrawl.Errorf(refcrawl.EINTERNAL, "decoding extractor output: %v", err)
	}

	return &res, nil
}
