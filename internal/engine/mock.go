package engine

import "context"

// MockEngine is a scripted engine for tests.
type MockEngine struct {
	NameValue   string
	RecognizeFn func(ctx context.Context, image []byte) (NativeResult, error)
}

// Name returns the scripted name, defaulting to "mock".
func (m *MockEngine) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// Recognize delegates to RecognizeFn, or returns an empty block result.
func (m *MockEngine) Recognize(ctx context.Context, image []byte) (NativeResult, error) {
	if m.RecognizeFn != nil {
		return m.RecognizeFn(ctx, image)
	}
	return NativeResult{Kind: KindBlock}, nil
}
