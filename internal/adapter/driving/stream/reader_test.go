package stream_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/autoreviewer/internal/adapter/driving/stream"
	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

func collectEvents(b *stream.Bus) *[]model.Event {
	var got []model.Event
	b.Subscribe(func(ctx context.Context, ev model.Event) {
		got = append(got, ev)
	})
	return &got
}

func TestReader_PublishesDecodedEvents(t *testing.T) {
	feed := strings.Join([]string{
		`{"type":"revision-created","project":"acme/api","change":{"number":7,"branch":"main"},"uploader":{"username":"alice","email":"alice@example.com"}}`,
		`{"type":"comment-added","project":"acme/api","change":{"number":7}}`,
	}, "\n")

	b := stream.NewBus()
	got := collectEvents(b)

	r := stream.NewReader(strings.NewReader(feed), b)
	require.NoError(t, r.Run(context.Background()))

	require.Len(t, *got, 2)
	first := (*got)[0]
	assert.Equal(t, model.EventRevisionCreated, first.Kind)
	assert.Equal(t, "acme/api", first.Project)
	assert.Equal(t, 7, first.Change.Number)
	assert.Equal(t, "main", first.Change.Branch)
	assert.Equal(t, "alice", first.Uploader.Username)
	assert.Equal(t, model.EventKind("comment-added"), (*got)[1].Kind)
}

func TestReader_SkipsMalformedLines(t *testing.T) {
	feed := strings.Join([]string{
		`{"type":"revision-created","project":"acme/api","change":{"number":1}}`,
		`{not json`,
		``,
		`{"type":"revision-created","project":"acme/api","change":{"number":2}}`,
	}, "\n")

	b := stream.NewBus()
	got := collectEvents(b)

	r := stream.NewReader(strings.NewReader(feed), b)
	require.NoError(t, r.Run(context.Background()))

	require.Len(t, *got, 2)
	assert.Equal(t, 1, (*got)[0].Change.Number)
	assert.Equal(t, 2, (*got)[1].Change.Number)
}

func TestReader_StopsOnCanceledContext(t *testing.T) {
	feed := strings.Repeat(`{"type":"revision-created","project":"acme/api","change":{"number":1}}`+"\n", 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := stream.NewBus()
	got := collectEvents(b)

	r := stream.NewReader(strings.NewReader(feed), b)
	err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *got)
}
