package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrganizeReportCounters(t *testing.T) {
	r := NewOrganizeReport("/inbox", false)
	assert.False(t, r.HasErrors())
	assert.NotNil(t, r.Errors)

	r.AddMove(Move{FileName: "a.jpg", Folder: "Images", Size: 10})
	r.AddMove(Move{FileName: "b.txt", Folder: "Docs", Size: 5})
	r.AddSkip("c.pdf", SkipNoRule)
	r.AddFailure("d.txt", errors.New("permission denied"))

	assert.Equal(t, 4, r.Processed)
	assert.Equal(t, 2, r.Moved)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, r.Processed, r.Moved+r.Skipped+r.Failed)
	assert.Equal(t, int64(15), r.BytesMoved)

	assert.True(t, r.HasErrors())
	assert.Equal(t, []FileFailure{{FileName: "d.txt", Message: "permission denied"}}, r.Errors)
	assert.Equal(t, []Skip{{FileName: "c.pdf", Reason: SkipNoRule}}, r.Skips)
}
