package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/dogechain-lab/smartwallet/helper/kvdb"
	"github.com/dogechain-lab/smartwallet/helper/rawdb"
	"github.com/dogechain-lab/smartwallet/state/stypes"
	"github.com/dogechain-lab/smartwallet/types"
	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru"
)

const (
	DefaultAccountCacheSize = 8192
	DefaultCodeCacheSize    = 16 * 1024 * 1024 // bytes
)

// Store holds the committed account records and deployed code images
type Store struct {
	logger hclog.Logger
	db     kvdb.KVBatchStorage

	accounts *lru.Cache       // address -> *stypes.Account
	codes    *fastcache.Cache // code ref -> image

	// commits hold it exclusively so cache fills never race a newer write
	commitLock sync.RWMutex
}

// NewStore wraps db. Cache sizes of zero pick the defaults.
func NewStore(logger hclog.Logger, db kvdb.KVBatchStorage, accountCacheSize, codeCacheSize int) (*Store, error) {
	if accountCacheSize <= 0 {
		accountCacheSize = DefaultAccountCacheSize
	}

	if codeCacheSize <= 0 {
		codeCacheSize = DefaultCodeCacheSize
	}

	accounts, err := lru.New(accountCacheSize)
	if err != nil {
		return nil, err
	}

	return &Store{
		logger:   logger.Named("store"),
		db:       db,
		accounts: accounts,
		codes:    fastcache.New(codeCacheSize),
	}, nil
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// GetAccount returns a copy of the committed record of addr. Accounts
// never written read as empty records.
func (s *Store) GetAccount(addr types.Address) (*stypes.Account, error) {
	if v, ok := s.accounts.Get(addr); ok {
		return v.(*stypes.Account).Copy(), nil //nolint:forcetypeassert
	}

	s.commitLock.RLock()
	defer s.commitLock.RUnlock()

	account, err := rawdb.ReadAccount(s.db, addr)
	if errors.Is(err, rawdb.ErrNotFound) {
		return &stypes.Account{}, nil
	} else if err != nil {
		return nil, storeError(err)
	}

	s.accounts.Add(addr, account.Copy())

	return account, nil
}

// GetCodeImage returns the image deployed under ref
func (s *Store) GetCodeImage(ref types.Address) ([]byte, bool, error) {
	if code, ok := s.codes.HasGet(nil, ref.Bytes()); ok {
		return code, true, nil
	}

	code, err := rawdb.ReadCode(s.db, ref)
	if errors.Is(err, rawdb.ErrNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, storeError(err)
	}

	s.codes.Set(ref.Bytes(), code)

	return code, true, nil
}

// HasCode reports whether an image was deployed under ref
func (s *Store) HasCode(ref types.Address) (bool, error) {
	if s.codes.Has(ref.Bytes()) {
		return true, nil
	}

	ok, err := rawdb.HasCode(s.db, ref)
	if err != nil {
		return false, storeError(err)
	}

	return ok, nil
}

// PutCode stores an image. Images are content addressed so rewriting a
// ref is harmless.
func (s *Store) PutCode(ref types.Address, image []byte) error {
	if err := rawdb.WriteCode(s.db, ref, image); err != nil {
		return storeError(err)
	}

	s.codes.Set(ref.Bytes(), image)

	return nil
}

// NewTxn opens a transaction over the committed state
func (s *Store) NewTxn() *Txn {
	return newTxn(s)
}

// Commit writes the dirty accounts in one batch. Either every record is
// persisted or none is.
func (s *Store) Commit(objs []*stypes.Object) error {
	if len(objs) == 0 {
		return nil
	}

	s.commitLock.Lock()
	defer s.commitLock.Unlock()

	batch := s.db.NewBatch()

	for _, obj := range objs {
		if err := rawdb.WriteAccount(batch, obj.Address, obj.Account); err != nil {
			return storeError(err)
		}
	}

	if err := batch.Write(); err != nil {
		s.logger.Error("failed to commit accounts", "count", len(objs), "err", err)

		return storeError(err)
	}

	for _, obj := range objs {
		s.accounts.Add(obj.Address, obj.Account.Copy())
	}

	s.logger.Debug("committed accounts", "count", len(objs), "size", batch.ValueSize())

	return nil
}

// Accounts walks every persisted account in address order
func (s *Store) Accounts(fn func(types.Address, *stypes.Account) bool) error {
	if err := rawdb.IterateAccounts(s.db, fn); err != nil {
		return storeError(err)
	}

	return nil
}

func (s *Store) Close() error {
	s.codes.Reset()
	s.accounts.Purge()

	return s.db.Close()
}
