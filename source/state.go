// Package source loads the recipes an upstream extractor produced.
package source

import (
	"context"
	"errors"
)

// State is raw recipe data in some backing store.
type State interface {
	Load(ctx context.Context) ([]byte, error)
}

// TestState is a simple in-memory implementation for testing
type TestState struct {
	data []byte
	err  error
}

func NewTestState(data []byte) *TestState {
	return &TestState{data: data}
}

func NewTestStateWithError() *TestState {
	return &TestState{err: errors.New("not found")}
}

func (t *TestState) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}
