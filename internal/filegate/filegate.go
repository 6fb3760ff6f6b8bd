// internal/filegate/filegate.go

// Package filegate decides whether an uploaded resume is acceptable before
// any persistence or notification work begins.
package filegate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Verdict is the outcome of evaluating one file. Reason is user-facing and
// only set on rejection.
type Verdict struct {
	Accepted bool
	Code     string
	Reason   string
}

const (
	CodeTypeRejected = "FILE_TYPE_REJECTED"
	CodeTooLarge     = "FILE_TOO_LARGE"
)

// Gate holds the configured acceptance policy. It carries no mutable state;
// Evaluate is a pure function of its inputs and this configuration.
type Gate struct {
	allowed      map[string]struct{}
	allowedNames []string
	maxSizeBytes int64
}

// New builds a Gate from the configured allow-list and size cap. Extensions
// are matched case-insensitively and must include the leading dot.
func New(allowedExtensions []string, maxSizeBytes int64) *Gate {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	names := make([]string, 0, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		allowed[ext] = struct{}{}
		names = append(names, strings.ToUpper(strings.TrimPrefix(ext, ".")))
	}
	return &Gate{
		allowed:      allowed,
		allowedNames: names,
		maxSizeBytes: maxSizeBytes,
	}
}

// Evaluate classifies the file by extension and declared size. It runs before
// any side effect; a rejection short-circuits the pipeline.
func (g *Gate) Evaluate(filename string, sizeBytes int64) Verdict {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := g.allowed[ext]; !ok {
		return Verdict{
			Code: CodeTypeRejected,
			Reason: fmt.Sprintf("File type not allowed. Use only %s.",
				strings.Join(g.allowedNames, ", ")),
		}
	}

	if sizeBytes > g.maxSizeBytes {
		return Verdict{
			Code: CodeTooLarge,
			Reason: fmt.Sprintf("File too large. The maximum allowed size is %dMB.",
				g.maxSizeBytes>>20),
		}
	}

	return Verdict{Accepted: true}
}

// MaxSizeBytes exposes the configured cap for request body limiting.
func (g *Gate) MaxSizeBytes() int64 {
	return g.maxSizeBytes
}
