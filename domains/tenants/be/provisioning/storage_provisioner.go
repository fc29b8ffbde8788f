package provisioning

import (
	"context"
	"fmt"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/storage"
)

// StorageProvisioner verifies a tenant prefix against the configured asset backend.
// Object stores create prefixes implicitly on first write, so Ensure only needs
// the backend to accept the prefix; the local backend creates the directory.
type StorageProvisioner struct {
	store storage.AssetStore
}

func NewStorageProvisioner(store storage.AssetStore) *StorageProvisioner {
	if store == nil {
		panic("storage provisioner requires an asset store")
	}
	return &StorageProvisioner{store: store}
}

func (p *StorageProvisioner) Ensure(ctx context.Context, prefix string) (service.StorageProvisionResult, error) {
	return p.Check(ctx, prefix)
}

func (p *StorageProvisioner) Check(ctx context.Context, prefix string) (service.StorageProvisionResult, error) {
	if prefix == "" {
		return service.StorageProvisionResult{Ready: false}, fmt.Errorf("storage prefix is required")
	}
	if err := p.store.Check(ctx, prefix); err != nil {
		return service.StorageProvisionResult{Ready: false}, err
	}
	return service.StorageProvisionResult{Ready: true}, nil
}

var _ service.StorageProvisioner = (*StorageProvisioner)(nil)
