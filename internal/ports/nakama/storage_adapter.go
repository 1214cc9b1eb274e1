package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"durak/internal/ports"
)

// StorageModule is the part of runtime.NakamaModule the storage adapter uses.
type StorageModule interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error
}

// NakamaStorageAdapter implements ports.KeyValueStore with Nakama storage
// objects owned by one user. Objects are readable and writable by the owner
// only.
type NakamaStorageAdapter struct {
	nk     StorageModule
	userID string
}

// NewNakamaStorageAdapter creates a storage adapter scoped to userID.
func NewNakamaStorageAdapter(nk StorageModule, userID string) *NakamaStorageAdapter {
	return &NakamaStorageAdapter{nk: nk, userID: userID}
}

func (a *NakamaStorageAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ports.ErrEmptyKey
	}
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StorageCollection,
		Key:        key,
		UserID:     a.userID,
	}})
	if err != nil {
		return "", false, fmt.Errorf("failed to read storage %s: %w", key, err)
	}
	if len(objects) == 0 {
		return "", false, nil
	}
	return objects[0].GetValue(), true, nil
}

func (a *NakamaStorageAdapter) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ports.ErrEmptyKey
	}
	_, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      StorageCollection,
		Key:             key,
		UserID:          a.userID,
		Value:           value,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_OWNER_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write storage %s: %w", key, err)
	}
	return nil
}

func (a *NakamaStorageAdapter) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ports.ErrEmptyKey
	}
	err := a.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: StorageCollection,
		Key:        key,
		UserID:     a.userID,
	}})
	if err != nil {
		return fmt.Errorf("failed to delete storage %s: %w", key, err)
	}
	return nil
}

var _ ports.KeyValueStore = (*NakamaStorageAdapter)(nil)
