package credstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/greenhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/greenhub/internal/common"
	"github.com/dmitrijs2005/greenhub/internal/cryptox"
	"github.com/dmitrijs2005/greenhub/internal/dbx"
	"github.com/dmitrijs2005/greenhub/internal/logging"
)

// SQLiteStore keeps slots in the metadata table, sealed with AES-GCM under a
// key derived from the device secret and a per-database salt.
type SQLiteStore struct {
	db   *sql.DB
	repo metadata.Repository
	key  []byte
	log  logging.Logger
}

// NewSQLiteStore prepares the store, creating the key derivation salt on
// first use.
func NewSQLiteStore(ctx context.Context, db *sql.DB, secret []byte, log logging.Logger) (*SQLiteStore, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("credential store secret is empty")
	}
	if log == nil {
		log = logging.NewNop()
	}

	repo := metadata.NewSQLiteRepository(db)
	salt, found, err := repo.Get(ctx, common.KeyKDFSalt)
	if err != nil {
		return nil, err
	}
	if !found {
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		if err := repo.Set(ctx, common.KeyKDFSalt, salt); err != nil {
			return nil, err
		}
	}

	return &SQLiteStore{
		db:   db,
		repo: repo,
		key:  cryptox.DeriveKey(secret, salt),
		log:  log.With("component", "credstore"),
	}, nil
}

// Get returns the opened slot value. A value that cannot be opened (wrong
// device secret, corruption) is reported as absent.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, found, err := s.repo.Get(ctx, key)
	if err != nil || !found {
		return "", false, err
	}

	plain, err := cryptox.Open(s.key, sealed)
	if err != nil {
		s.log.Warn(ctx, "discarding unreadable credential slot", "key", key, "err", err)
		return "", false, nil
	}
	return string(plain), true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return s.set(ctx, s.repo, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// SetAll writes every slot in one transaction.
func (s *SQLiteStore) SetAll(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, k := range keys {
			if err := s.set(ctx, repo, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAll removes every slot in one transaction.
func (s *SQLiteStore) DeleteAll(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, keys...)
	})
}

func (s *SQLiteStore) set(ctx context.Context, repo metadata.Repository, key, value string) error {
	sealed, err := cryptox.Seal(s.key, []byte(value))
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return repo.Set(ctx, key, sealed)
}
