package testutil

import (
	"errors"

	"github.com/Norgate-AV/wizql/internal/process"
)

// MockLaunchResult scripts the outcome of one Launch call
type MockLaunchResult struct {
	Info process.Info
	Err  error
}

// MockLauncher implements interfaces.ProcessLauncher for testing. Calls past
// the scripted results succeed with PID 1000+n.
type MockLauncher struct {
	Results     []MockLaunchResult
	LaunchCalls []string
}

func NewMockLauncher() *MockLauncher {
	return &MockLauncher{
		Results:     []MockLaunchResult{},
		LaunchCalls: []string{},
	}
}

func (m *MockLauncher) Launch(workingDir string) (process.Info, error) {
	n := len(m.LaunchCalls)
	m.LaunchCalls = append(m.LaunchCalls, workingDir)

	if n < len(m.Results) {
		r := m.Results[n]
		if r.Err != nil {
			return process.Info{}, r.Err
		}

		return r.Info, nil
	}

	return process.Info{PID: uint32(1000 + n)}, nil
}

// Helper methods for fluent configuration
func (m *MockLauncher) WithSuccess(pid uint32) *MockLauncher {
	m.Results = append(m.Results, MockLaunchResult{Info: process.Info{PID: pid, TID: pid + 1}})
	return m
}

func (m *MockLauncher) WithFailure(dir string) *MockLauncher {
	m.Results = append(m.Results, MockLaunchResult{
		Err: &process.LaunchError{Dir: dir, Err: errors.New("the system cannot find the file specified")},
	})

	return m
}
