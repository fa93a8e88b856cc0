package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloser struct {
	name  string
	order *[]string
	err   error
}

func (f *fakeCloser) Close() error {
	*f.order = append(*f.order, f.name)
	return f.err
}

func TestCloseRunsInReverseOrder(t *testing.T) {
	var order []string
	s := New()

	Track(s, "app", &fakeCloser{name: "app", order: &order})
	Track(s, "workbook", &fakeCloser{name: "workbook", order: &order})
	s.Defer("temp", func() error {
		order = append(order, "temp")
		return nil
	})
	require.NoError(t, s.Close())
	assert.Equal(t, []string{"temp", "workbook", "app"}, order)

	// Released actions never run twice
	require.NoError(t, s.Close())
	assert.Len(t, order, 3)
}

func TestCloseContinuesAfterError(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	s := New()

	Track(s, "first", &fakeCloser{name: "first", order: &order})
	Track(s, "second", &fakeCloser{name: "second", order: &order, err: boom})

	err := s.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "release second")
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestCloseIsIdempotent(t *testing.T) {
	calls := 0
	var s Scope
	s.Defer("once", func() error {
		calls++
		return nil
	})

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, calls)
}
