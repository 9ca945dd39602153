package stream_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/autoreviewer/internal/adapter/driving/stream"
	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

func TestBus_FansOutInSubscriptionOrder(t *testing.T) {
	b := stream.NewBus()

	var order []string
	b.Subscribe(func(ctx context.Context, ev model.Event) {
		order = append(order, "first:"+ev.Project)
	})
	b.Subscribe(func(ctx context.Context, ev model.Event) {
		order = append(order, "second:"+ev.Project)
	})

	b.Publish(context.Background(), model.Event{Project: "acme/api"})

	assert.Equal(t, []string{"first:acme/api", "second:acme/api"}, order)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	b := stream.NewBus()
	assert.NotPanics(t, func() {
		b.Publish(context.Background(), model.Event{Project: "acme/api"})
	})
}
