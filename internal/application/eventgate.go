package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// EventGate is the entry point of the pipeline. It subscribes to the host's
// event stream and, for each new revision, runs config lookup → rule
// matching → specifier resolution → background dispatch. OnEvent never lets
// a failure escape to the event source: every error is logged and swallowed
// here, at the single top-level boundary.
type EventGate struct {
	configs     driven.FilterConfigStore
	sessions    driven.SessionFactory
	changes     driven.ChangeStore
	matcher     *Matcher
	resolver    *Resolver
	dispatcher  *Dispatcher
	writer      driven.ReviewerWriter
	assignments driven.AssignmentStore
}

// NewEventGate wires the pipeline.
func NewEventGate(
	configs driven.FilterConfigStore,
	sessions driven.SessionFactory,
	changes driven.ChangeStore,
	matcher *Matcher,
	resolver *Resolver,
	dispatcher *Dispatcher,
	writer driven.ReviewerWriter,
	assignments driven.AssignmentStore,
) *EventGate {
	return &EventGate{
		configs:     configs,
		sessions:    sessions,
		changes:     changes,
		matcher:     matcher,
		resolver:    resolver,
		dispatcher:  dispatcher,
		writer:      writer,
		assignments: assignments,
	}
}

// OnEvent handles one event from the stream. It runs synchronously on the
// delivering goroutine; only the dispatched task runs later.
func (g *EventGate) OnEvent(ctx context.Context, ev model.Event) {
	if ev.Kind != model.EventRevisionCreated {
		return
	}

	sections, err := g.configs.LoadSections(ctx, ev.Project)
	if err != nil {
		slog.Error("loading filter sections",
			"project", ev.Project,
			"change", ev.Change.Number,
			"error", err,
		)
		return
	}
	if len(sections) == 0 {
		// The common case: project has no reviewer rules configured.
		return
	}

	s, err := g.sessions.Open(ctx)
	if err != nil {
		slog.Error("opening session",
			"project", ev.Project,
			"change", ev.Change.Number,
			"error", err,
		)
		return
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Error("closing session", "project", ev.Project, "error", err)
		}
	}()

	change, err := g.changes.GetChange(ctx, s, ev.Project, ev.Change.Number)
	if err != nil {
		slog.Error("loading change",
			"project", ev.Project,
			"change", ev.Change.Number,
			"error", err,
		)
		return
	}
	if change == nil {
		slog.Error("change not found",
			"project", ev.Project,
			"change", ev.Change.Number,
		)
		return
	}

	matched, err := g.matcher.Match(ctx, sections, change, ev.Uploader.Username)
	if err != nil {
		slog.Error("matching filter sections",
			"project", ev.Project,
			"change", ev.Change.Number,
			"error", err,
		)
		return
	}

	specifiers := UnionReviewers(matched)
	if len(specifiers) == 0 {
		return
	}

	reviewers, err := g.resolver.Resolve(ctx, s, ev.Project, specifiers, ev.Uploader.Email)
	if err != nil {
		slog.Error("resolving reviewers",
			"project", ev.Project,
			"change", ev.Change.Number,
			"error", err,
		)
		return
	}
	if len(reviewers) == 0 {
		return
	}

	// The task captures only immutable state: the change coordinates and the
	// resolved accounts. The session above stays on this goroutine.
	task := NewAddReviewersTask(g.writer, g.assignments, change.Project, change.Number, reviewers)
	if err := g.dispatcher.Submit("add-reviewers", change.Owner, task.Run); err != nil {
		slog.Error("dispatching reviewer addition",
			"project", ev.Project,
			"change", ev.Change.Number,
			"error", err,
		)
	}
}
