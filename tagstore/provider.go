package tagstore

import (
	"context"
	"errors"

	pr "github.com/unkn0wn-root/depcache/provider"
)

// ProviderStore keeps tag versions in a provider.Provider, next to the
// cached entries. Each key is read individually.
// The provider is owned by the cache; Close leaves it open.
type ProviderStore struct {
	p pr.Provider
}

var _ Store = (*ProviderStore)(nil)

var errNilProvider = errors.New("tagstore: nil provider")

func NewProviderStore(p pr.Provider) (*ProviderStore, error) {
	if p == nil {
		return nil, errNilProvider
	}
	return &ProviderStore{p: p}, nil
}

func (s *ProviderStore) Versions(ctx context.Context, keys []string) ([]Dependency, error) {
	out := make([]Dependency, len(keys))
	for i, k := range keys {
		b, ok, err := s.p.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			out[i] = Absent(k)
			continue
		}
		out[i] = At(k, string(b))
	}
	return out, nil
}

// Touch stops at the first failing key. Keys already written keep the new
// version, which only makes more entries stale.
func (s *ProviderStore) Touch(ctx context.Context, keys []string, version string) error {
	v := []byte(version)
	for _, k := range keys {
		ok, err := s.p.Set(ctx, k, v, int64(len(v)), 0)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRejected
		}
	}
	return nil
}

func (s *ProviderStore) Close(context.Context) error { return nil }
