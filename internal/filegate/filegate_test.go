// internal/filegate/filegate_test.go
package filegate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestGate() *Gate {
	return New([]string{".pdf", ".doc", ".docx"}, 5<<20)
}

func TestEvaluate_AcceptsAllowedExtensions(t *testing.T) {
	gate := newTestGate()

	for _, name := range []string{"cv.pdf", "resume.doc", "resume.docx", "CV.PDF", "Resume.DocX"} {
		verdict := gate.Evaluate(name, 10*1024)
		assert.True(t, verdict.Accepted, "expected %s to be accepted", name)
		assert.Empty(t, verdict.Reason)
	}
}

func TestEvaluate_RejectsDisallowedExtensions(t *testing.T) {
	gate := newTestGate()

	for _, name := range []string{"cv.exe", "cv.txt", "cv.pdf.sh", "cv", "archive.zip"} {
		verdict := gate.Evaluate(name, 10*1024)
		assert.False(t, verdict.Accepted, "expected %s to be rejected", name)
		assert.Equal(t, CodeTypeRejected, verdict.Code)
		assert.Contains(t, verdict.Reason, "PDF")
	}
}

func TestEvaluate_RejectsOversizedFile(t *testing.T) {
	gate := newTestGate()

	verdict := gate.Evaluate("cv.pdf", (5<<20)+1)
	assert.False(t, verdict.Accepted)
	assert.Equal(t, CodeTooLarge, verdict.Code)
	assert.Contains(t, verdict.Reason, "5MB")
}

func TestEvaluate_AcceptsFileAtExactLimit(t *testing.T) {
	gate := newTestGate()

	verdict := gate.Evaluate("cv.pdf", 5<<20)
	assert.True(t, verdict.Accepted)
}

func TestEvaluate_ConfigurableAllowList(t *testing.T) {
	// Some deployments additionally allow plain text resumes.
	gate := New([]string{".pdf", ".doc", ".docx", ".txt"}, 5<<20)

	verdict := gate.Evaluate("cv.txt", 1024)
	assert.True(t, verdict.Accepted)
}

func TestEvaluate_TypeCheckedBeforeSize(t *testing.T) {
	gate := newTestGate()

	// Wrong type and oversized: the type rejection wins.
	verdict := gate.Evaluate("cv.exe", 10<<20)
	assert.Equal(t, CodeTypeRejected, verdict.Code)
}
