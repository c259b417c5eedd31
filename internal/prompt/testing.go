/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package prompt

import (
	"github.com/stretchr/testify/mock"
)

// MockPrompter implements Prompter for testing
type MockPrompter struct {
	mock.Mock
}

// ConfirmOverwrite mock implementation
func (m *MockPrompter) ConfirmOverwrite(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}
