package rpc

import (
	"github.com/pkg/errors"

	"github.com/solkit/txkit/pkg/cache"
	"github.com/solkit/txkit/pkg/solana"
	address_lookup_table "github.com/solkit/txkit/pkg/solana/addresslookuptable"
	sync_util "github.com/solkit/txkit/pkg/sync"
)

const (
	// Cache entries are weighted by address count, so the budget bounds the
	// total number of cached table addresses rather than table count.
	defaultTableAddressBudget = 1 << 14

	tableLockStripes = 64
)

// TableLoader fetches address lookup table contents and caches them for the
// message decompiler. The resulting map plugs directly into
// solana.DecompileConfig.AddressesByLookupTableAddress.
type TableLoader struct {
	client Client
	cache  cache.Cache[[]solana.Address]
	locks  *sync_util.StripedLock
}

func NewTableLoader(client Client) *TableLoader {
	return newTableLoaderWithBudget(client, defaultTableAddressBudget)
}

func newTableLoaderWithBudget(client Client, budget int) *TableLoader {
	return &TableLoader{
		client: client,
		cache:  cache.NewCache[[]solana.Address](budget),
		locks:  sync_util.NewStripedLock(tableLockStripes),
	}
}

// Load resolves the addresses stored in each table. Uncached tables are
// fetched one at a time under a per-table lock, so concurrent loads of the
// same table produce a single fetch. Tables that don't exist on chain are
// omitted from the result, letting the decompiler report every missing
// table at once.
func (l *TableLoader) Load(tables ...solana.Address) (map[solana.Address][]solana.Address, error) {
	resolved := make(map[solana.Address][]solana.Address, len(tables))

	for _, table := range tables {
		if _, ok := resolved[table]; ok {
			continue
		}

		addresses, found, err := l.loadOne(table)
		if err != nil {
			return nil, err
		}
		if found {
			resolved[table] = addresses
		}
	}

	return resolved, nil
}

func (l *TableLoader) loadOne(table solana.Address) ([]solana.Address, bool, error) {
	lock := l.locks.Get(table[:])
	lock.Lock()
	defer lock.Unlock()

	if cached, ok := l.cache.Retrieve(table.String()); ok {
		return cached, true, nil
	}

	info, err := l.client.GetAccountInfo(table, CommitmentFinalized)
	if err == ErrNoAccountInfo {
		return nil, false, nil
	} else if err != nil {
		return nil, false, errors.Wrapf(err, "failed to fetch lookup table %s", table)
	}

	addresses, err := decodeTableAddresses(table, info.Data)
	if err != nil {
		return nil, false, err
	}

	// Weighting by address count (plus one so empty tables still have
	// weight) keeps the budget proportional to retained memory.
	_ = l.cache.Insert(table.String(), addresses, len(addresses)+1)

	return addresses, true, nil
}

// Warm prefetches a set of tables in a single batched call. Concurrent
// warms of the same table may fetch it more than once; the cache keeps
// the first copy.
func (l *TableLoader) Warm(tables ...solana.Address) error {
	var missing []solana.Address
	seen := make(map[solana.Address]struct{}, len(tables))
	for _, table := range tables {
		if _, ok := seen[table]; ok {
			continue
		}
		seen[table] = struct{}{}

		lock := l.locks.Get(table[:])
		lock.RLock()
		_, cached := l.cache.Retrieve(table.String())
		lock.RUnlock()

		if !cached {
			missing = append(missing, table)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	infos, err := l.client.GetMultipleAccounts(missing, CommitmentFinalized)
	if err != nil {
		return errors.Wrap(err, "failed to fetch lookup table accounts")
	}

	for i, info := range infos {
		if info == nil {
			continue
		}

		addresses, err := decodeTableAddresses(missing[i], info.Data)
		if err != nil {
			return err
		}

		l.insert(missing[i], addresses)
	}

	return nil
}

func (l *TableLoader) insert(table solana.Address, addresses []solana.Address) {
	lock := l.locks.Get(table[:])

	// Warm inserts race with loads of the same table, so re-check under the
	// lock and keep whichever copy landed first.
	lock.Lock()
	if _, ok := l.cache.Retrieve(table.String()); !ok {
		_ = l.cache.Insert(table.String(), addresses, len(addresses)+1)
	}
	lock.Unlock()
}

func decodeTableAddresses(table solana.Address, data []byte) ([]solana.Address, error) {
	var account address_lookup_table.AddressLookupTableAccount
	if err := account.Unmarshal(data); err != nil {
		return nil, errors.Wrapf(err, "invalid lookup table account %s", table)
	}
	return account.Addresses, nil
}
