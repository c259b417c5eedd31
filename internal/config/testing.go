/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package config

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider implements Provider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) LoadUnits(ctx context.Context) ([]*WorkerConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*WorkerConfig), args.Error(1)
}

func (m *MockProvider) ListEnvironments() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProvider) Options() (Options, error) {
	args := m.Called()
	return args.Get(0).(Options), args.Error(1)
}

func (m *MockProvider) Validate() error {
	args := m.Called()
	return args.Error(0)
}
