package gatekeeper

import "github.com/diffrakt-dev/diffrakt-host-sdk/gatekeeper/grantstore"

// FileGrantStore adapts grantstore.FileStore to the GrantStore port.
type FileGrantStore struct {
	backend *grantstore.FileStore
}

// NewFileGrantStore creates a YAML-file-backed grant store.
func NewFileGrantStore(opts ...grantstore.FileStoreOption) *FileGrantStore {
	return &FileGrantStore{backend: grantstore.NewFileStore(opts...)}
}

// Load retrieves the approved repositories.
func (s *FileGrantStore) Load() (*GrantSet, error) {
	repos, err := s.backend.LoadRepositories()
	if err != nil {
		return nil, err
	}
	return &GrantSet{Repositories: repos}, nil
}

// Save persists the approved repositories.
func (s *FileGrantStore) Save(grants *GrantSet) error {
	if grants == nil {
		grants = &GrantSet{}
	}
	return s.backend.SaveRepositories(grants.Repositories)
}

// ConfigPath returns the path to the backing file.
func (s *FileGrantStore) ConfigPath() string {
	return s.backend.ConfigPath()
}
