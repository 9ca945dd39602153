package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// --- Mock implementations shared by the application tests ---

// predicateFunc adapts a plain function to the Predicate port.
type predicateFunc func(change *model.Change) (bool, error)

func (f predicateFunc) Match(change *model.Change) (bool, error) {
	return f(change)
}

type mockPredicateEngine struct {
	parse      func(filter, asUser string) (driven.Predicate, error)
	parseCalls []string
}

func (m *mockPredicateEngine) Parse(filter, asUser string) (driven.Predicate, error) {
	m.parseCalls = append(m.parseCalls, filter)
	return m.parse(filter, asUser)
}

type listMembersCall struct {
	AsUser  model.Account
	Group   model.Group
	Project string
}

type mockDirectory struct {
	resolveAccount   func(specifier string) (*model.Account, error)
	accountsByEmail  func(email string) ([]model.Account, error)
	resolveGroup     func(specifier string) (*model.Group, error)
	listGroupMembers func(group model.Group, project string) ([]model.Account, error)

	emailLookups int
	memberCalls  []listMembersCall
}

func (m *mockDirectory) ResolveAccount(_ context.Context, _ driven.Session, specifier string) (*model.Account, error) {
	if m.resolveAccount == nil {
		return nil, nil
	}
	return m.resolveAccount(specifier)
}

func (m *mockDirectory) AccountsByEmail(_ context.Context, _ driven.Session, email string) ([]model.Account, error) {
	m.emailLookups++
	return m.accountsByEmail(email)
}

func (m *mockDirectory) ResolveGroup(_ context.Context, _ driven.Session, specifier string) (*model.Group, error) {
	if m.resolveGroup == nil {
		return nil, driven.ErrNoSuchGroup
	}
	return m.resolveGroup(specifier)
}

func (m *mockDirectory) ListGroupMembers(_ context.Context, _ driven.Session, asUser model.Account, group model.Group, project string) ([]model.Account, error) {
	m.memberCalls = append(m.memberCalls, listMembersCall{AsUser: asUser, Group: group, Project: project})
	return m.listGroupMembers(group, project)
}

type mockSession struct {
	mu     sync.Mutex
	closed bool
}

func (m *mockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSession) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

type mockSessionFactory struct {
	mu      sync.Mutex
	openErr error
	opened  []*mockSession
}

func (m *mockSessionFactory) Open(_ context.Context) (driven.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return nil, m.openErr
	}
	s := &mockSession{}
	m.opened = append(m.opened, s)
	return s, nil
}

func (m *mockSessionFactory) openCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.opened)
}

type mockFilterConfigStore struct {
	sections  []model.FilterSection
	err       error
	loadCalls int
}

func (m *mockFilterConfigStore) LoadSections(_ context.Context, _ string) ([]model.FilterSection, error) {
	m.loadCalls++
	return m.sections, m.err
}

type mockChangeStore struct {
	change *model.Change
	err    error
}

func (m *mockChangeStore) GetChange(_ context.Context, _ driven.Session, _ string, _ int) (*model.Change, error) {
	return m.change, m.err
}

type requestCall struct {
	Project      string
	ChangeNumber int
	Reviewers    []model.Account
}

type mockReviewerWriter struct {
	mu       sync.Mutex
	err      error
	requests []requestCall
}

func (m *mockReviewerWriter) RequestReviewers(_ context.Context, project string, changeNumber int, reviewers []model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, requestCall{Project: project, ChangeNumber: changeNumber, Reviewers: reviewers})
	return m.err
}

func (m *mockReviewerWriter) calls() []requestCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]requestCall(nil), m.requests...)
}

type mockAssignmentStore struct {
	mu      sync.Mutex
	err     error
	records []model.Assignment
}

func (m *mockAssignmentStore) Record(_ context.Context, _ driven.Session, a model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, a)
	return nil
}

func (m *mockAssignmentStore) ListByChange(_ context.Context, _ driven.Session, _ string, _ int) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Assignment(nil), m.records...), nil
}

func (m *mockAssignmentStore) recorded() []model.Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Assignment(nil), m.records...)
}

// syncQueue runs submitted jobs immediately on the submitting goroutine so
// tests can assert on task effects without synchronization.
type syncQueue struct {
	submitted []string
	err       error
}

func (q *syncQueue) Submit(job driven.Job) error {
	if q.err != nil {
		return q.err
	}
	q.submitted = append(q.submitted, job.Name)
	job.Run(context.Background())
	return nil
}

// holdQueue records jobs without running them, for asserting that dispatch
// did or did not happen.
type holdQueue struct {
	jobs []driven.Job
}

func (q *holdQueue) Submit(job driven.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}
