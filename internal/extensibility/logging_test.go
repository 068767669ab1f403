package extensibility

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/comalice/formx/internal/core"
)

func errValidator(fn func() error) core.Validator {
	return core.ValidatorFunc(func(context.Context, any) (any, error) { return nil, fn() })
}

func TestLoggingValidator(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	boom := errors.New("boom")
	v := NewLoggingValidator(errValidator(func() error { return boom }), zap.New(obs).Sugar())

	if _, err := v.Validate(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("Validate = %v", err)
	}
	entries := logs.FilterMessage("Validation failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].LoggerName != "Validator" {
		t.Errorf("logger name = %q", entries[0].LoggerName)
	}
}

func TestLoggingSubmitter(t *testing.T) {
	obs, logs := observer.New(zapcore.InfoLevel)
	called := false
	s := NewLoggingSubmitter(core.SubmitFunc(func(context.Context, any) error {
		called = true
		return nil
	}), zap.New(obs).Sugar())

	if err := s.Submit(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("inner submitter not called")
	}
	if logs.FilterMessage("Submitted").Len() != 1 {
		t.Errorf("logs = %v", logs.All())
	}
}

type mapPersister map[string]core.Snapshot

func (m mapPersister) Save(_ context.Context, s core.Snapshot) error {
	m[s.FormID] = s
	return nil
}

func (m mapPersister) Load(_ context.Context, id string) (core.Snapshot, error) {
	s, ok := m[id]
	if !ok {
		return core.Snapshot{}, core.ErrNotFound
	}
	return s, nil
}

func TestLoggingPersister(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	p := NewLoggingPersister(mapPersister{}, zap.New(obs).Sugar())
	ctx := context.Background()

	if _, err := p.Load(ctx, "signup"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Load = %v, want ErrNotFound", err)
	}
	if err := p.Save(ctx, core.Snapshot{FormID: "signup"}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Load(ctx, "signup"); err != nil {
		t.Fatal(err)
	}
	for _, msg := range []string{"No snapshot", "Saved snapshot", "Loaded snapshot"} {
		if logs.FilterMessage(msg).Len() != 1 {
			t.Errorf("missing %q in %v", msg, logs.All())
		}
	}
	if logs.All()[0].LoggerName != "Persister" {
		t.Errorf("logger name = %q", logs.All()[0].LoggerName)
	}
}
