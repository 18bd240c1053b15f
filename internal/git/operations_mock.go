package git

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	Branch     string
	Commit     string
	IsDirty    bool
	calledWith []string
}

// NewMockGitOps creates a mock with sensible defaults.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{
		Branch: "main",
		Commit: "0123456789abcdef0123456789abcdef01234567",
	}
}

func (m *MockGitOps) CurrentBranch(repoPath string) string {
	m.calledWith = append(m.calledWith, repoPath)
	return m.Branch
}

func (m *MockGitOps) HeadCommit(repoPath string) string {
	m.calledWith = append(m.calledWith, repoPath)
	return m.Commit
}

func (m *MockGitOps) Dirty(repoPath string) bool {
	m.calledWith = append(m.calledWith, repoPath)
	return m.IsDirty
}

// CalledWith returns every repository path passed to the mock.
func (m *MockGitOps) CalledWith() []string {
	return m.calledWith
}
