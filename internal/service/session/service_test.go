package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"chopmate/internal/domain"
	sessionrepo "chopmate/internal/repository/session"
	"github.com/google/uuid"
)

func TestIssueAndLookup(t *testing.T) {
	svc := New(time.Hour, nil)
	token, sessionID, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		t.Fatalf("expected uuid session id, got %q", sessionID)
	}

	got, err := svc.Lookup(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != sessionID {
		t.Fatalf("expected %s, got %s", sessionID, got)
	}
	if svc.TTLSeconds() != 3600 {
		t.Fatalf("expected ttl 3600, got %d", svc.TTLSeconds())
	}
}

func TestIssue_DistinctSessions(t *testing.T) {
	svc := New(time.Hour, nil)
	t1, s1, _ := svc.Issue(context.Background())
	t2, s2, _ := svc.Issue(context.Background())
	if t1 == t2 || s1 == s2 {
		t.Fatalf("expected distinct sessions")
	}
}

func TestLookup_Unknown(t *testing.T) {
	svc := New(time.Hour, nil)
	for _, token := range []string{"", "nope"} {
		if _, err := svc.Lookup(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestLookup_ExpiredTokenEvicted(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := New(time.Hour, nil, WithClock(func() time.Time { return now }))

	token, _, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	now = now.Add(2 * time.Hour)

	if _, err := svc.Lookup(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
	if svc.tokens.Len() != 0 {
		t.Fatalf("expected expired token evicted, %d left", svc.tokens.Len())
	}
}

type stubTokenRepo struct {
	tokens    map[string]sessionrepo.Token
	createErr error
	deleted   []string
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: map[string]sessionrepo.Token{}}
}

func (r *stubTokenRepo) Create(_ context.Context, token sessionrepo.Token) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *stubTokenRepo) Get(_ context.Context, token string) (*sessionrepo.Token, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *stubTokenRepo) Delete(_ context.Context, token string) error {
	r.deleted = append(r.deleted, token)
	delete(r.tokens, token)
	return nil
}

func TestLookup_RestoresPersistedSession(t *testing.T) {
	repo := newStubTokenRepo()
	first := New(time.Hour, nil, WithRepository(repo))
	token, sessionID, err := first.Issue(context.Background())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if repo.tokens[token].SessionID != sessionID {
		t.Fatalf("expected token persisted")
	}

	restarted := New(time.Hour, nil, WithRepository(repo))
	got, err := restarted.Lookup(context.Background(), token)
	if err != nil || got != sessionID {
		t.Fatalf("expected session restored, got %q %v", got, err)
	}
	if restarted.tokens.Len() != 1 {
		t.Fatalf("expected restored token cached")
	}
}

func TestLookup_ExpiredPersistedTokenDeleted(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := newStubTokenRepo()
	repo.tokens["old"] = sessionrepo.Token{Token: "old", SessionID: "s1", ExpiresAt: now.Add(-time.Minute)}
	svc := New(time.Hour, nil, WithRepository(repo), WithClock(func() time.Time { return now }))

	if _, err := svc.Lookup(context.Background(), "old"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "old" {
		t.Fatalf("expected expired token deleted, got %v", repo.deleted)
	}
}

func TestIssue_PersistFailure(t *testing.T) {
	repo := newStubTokenRepo()
	repo.createErr = errors.New("db down")
	svc := New(time.Hour, nil, WithRepository(repo))

	if _, _, err := svc.Issue(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if svc.tokens.Len() != 0 {
		t.Fatalf("unpersisted token must not stay cached")
	}
}
