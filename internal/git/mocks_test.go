package git

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRunner 用于模拟git命令执行
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, dir string, command string, args ...string) (string, error) {
	arguments := m.Called(ctx, dir, command, args)
	return arguments.String(0), arguments.Error(1)
}

// MockInspector stands in for collector.Collector.
type MockInspector struct {
	mock.Mock
}

func (m *MockInspector) FindRoot(ctx context.Context, filePath string) (string, error) {
	args := m.Called(ctx, filePath)
	return args.String(0), args.Error(1)
}

func (m *MockInspector) RelativePath(ctx context.Context, filePath string) (string, error) {
	args := m.Called(ctx, filePath)
	return args.String(0), args.Error(1)
}

func (m *MockInspector) CurrentBranch(ctx context.Context, root string) (string, error) {
	args := m.Called(ctx, root)
	return args.String(0), args.Error(1)
}

func (m *MockInspector) BranchNames(ctx context.Context, root string) ([]string, error) {
	args := m.Called(ctx, root)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

// MockRemoteManager stubs remote lookups for push tests.
type MockRemoteManager struct {
	mock.Mock
}

func (m *MockRemoteManager) GetRemotes(ctx context.Context, root string) ([]Remote, error) {
	args := m.Called(ctx, root)
	remotes, _ := args.Get(0).([]Remote)
	return remotes, args.Error(1)
}

func (m *MockRemoteManager) SelectRemote(remotes []Remote, preferredName string) (*Remote, error) {
	args := m.Called(remotes, preferredName)
	remote, _ := args.Get(0).(*Remote)
	return remote, args.Error(1)
}

func (m *MockRemoteManager) HasUpstreamBranch(ctx context.Context, root, branch string) bool {
	args := m.Called(ctx, root, branch)
	return args.Bool(0)
}
