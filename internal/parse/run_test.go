package parse

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/extract"
)

func TestRun_ReadsUntilEOF(t *testing.T) {
	log := loadRegexLog(t)
	var completed bool
	e := New(extract.NewGCC(), WithHandler(func(ev Event) {
		_, completed = ev.(Completed)
	}))

	got, err := e.Run(context.Background(), iotest.OneByteReader(strings.NewReader(log)))

	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 3, got.Errors)
	assert.Equal(t, log, e.Text())
}

func TestRun_ReadErrorFailsParse(t *testing.T) {
	r := io.MultiReader(strings.NewReader("a.go:1:1: x\n"), iotest.ErrReader(errors.New("disk gone")))
	e := New(extract.NewGo())

	got, err := e.Run(context.Background(), r)

	var serr *domain.SourceStreamError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, serr.Error(), "disk gone")
	assert.True(t, got.Incomplete)
	assert.Len(t, got.Entries, 1)
}

func TestRun_ContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := New(extract.NewGo()).Run(ctx, pr)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, got.Incomplete)
}
