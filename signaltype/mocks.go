package signaltype

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/dto"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/services"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// MockResolver implements ProviderResolutionStrategy for testing
type MockResolver struct {
	services.BaseResolver
	Found  *entities.SignalType
	Err    error
	Called bool
}

func (m *MockResolver) Resolve(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, error) {
	m.Called = true
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Found != nil {
		return m.Found, nil
	}
	return m.ResolveNext(ctx, ref)
}

func (m *MockResolver) SetNext(next services.ProviderResolutionStrategy) {
	m.BaseResolver.SetNext(next)
}

// MockRepository implements ports.ProviderRepository
type MockRepository struct {
	FindType *entities.SignalType
	FindPath string
	FindErr  error

	StorePath string
	StoreErr  error

	ListTypes []*entities.SignalType
	ListErr   error
}

func (m *MockRepository) Find(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, string, error) {
	if m.FindErr != nil {
		return nil, "", m.FindErr
	}
	return m.FindType, m.FindPath, nil
}

func (m *MockRepository) Store(ctx context.Context, st *entities.SignalType, wasm io.Reader) (string, error) {
	if m.StoreErr != nil {
		return "", m.StoreErr
	}
	return m.StorePath, nil
}

func (m *MockRepository) List(ctx context.Context) ([]*entities.SignalType, error) {
	return m.ListTypes, m.ListErr
}

func (m *MockRepository) Prune(ctx context.Context, keep int) error {
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, ref values.ProviderReference) error {
	return nil
}

// MockRegistry implements ports.ProviderRegistry
type MockRegistry struct {
	PullArtifact *dto.ProviderArtifactDTO
	PullErr      error
	PushErr      error

	TagList []string
	TagsErr error

	ResolvedDigest values.Digest
	ResolveErr     error
}

func (m *MockRegistry) Pull(ctx context.Context, ref values.ProviderReference) (*dto.ProviderArtifactDTO, error) {
	if m.PullErr != nil {
		return nil, m.PullErr
	}
	return m.PullArtifact, nil
}

func (m *MockRegistry) Push(ctx context.Context, artifact *dto.ProviderArtifactDTO) error {
	return m.PushErr
}

func (m *MockRegistry) Resolve(ctx context.Context, ref values.ProviderReference) (values.Digest, error) {
	if m.ResolveErr != nil {
		return values.Digest{}, m.ResolveErr
	}
	if m.ResolvedDigest.Value() != "" {
		return m.ResolvedDigest, nil
	}
	d, _ := values.NewDigest("sha256", "5ca1ab1e"+strings.Repeat("0", 56))
	return d, nil
}

func (m *MockRegistry) Tags(ctx context.Context, ref values.ProviderReference) ([]string, error) {
	if m.TagsErr != nil {
		return nil, m.TagsErr
	}
	return m.TagList, nil
}

// MockVerifier implements ports.IntegrityVerifier
type MockVerifier struct {
	VerifyResult *ports.SignatureResult
	VerifyErr    error
	SignErr      error
}

func (m *MockVerifier) VerifySignature(ctx context.Context, ref values.ProviderReference) (*ports.SignatureResult, error) {
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	if m.VerifyResult == nil {
		return &ports.SignatureResult{
			Signer: "diffrakt-release",
		}, nil
	}
	return m.VerifyResult, nil
}

func (m *MockVerifier) Sign(ctx context.Context, ref values.ProviderReference) error {
	return m.SignErr
}

// MockLockfileRepo implements ports.LockfileRepository in memory
type MockLockfileRepo struct {
	Lockfile *entities.Lockfile
	LoadErr  error
	SaveErr  error
	Saved    bool
}

func (m *MockLockfileRepo) Load(ctx context.Context, path string) (*entities.Lockfile, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Lockfile, nil
}

func (m *MockLockfileRepo) Save(ctx context.Context, lockfile *entities.Lockfile, path string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Lockfile = lockfile
	m.Saved = true
	return nil
}

func (m *MockLockfileRepo) Exists(ctx context.Context, path string) (bool, error) {
	return m.Lockfile != nil, nil
}

func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
