package solana

import "github.com/emirpasic/gods/maps/linkedhashmap"

type addressEntry struct {
	role   AccountRole
	lookup *AccountLookup
}

// addressMap accumulates the merged role of every address a message
// references, in first-seen order. First-seen order is what keeps the
// compiled account list deterministic for a given instruction list.
type addressMap struct {
	entries *linkedhashmap.Map
}

func newAddressMap() *addressMap {
	return &addressMap{entries: linkedhashmap.New()}
}

func (m *addressMap) get(address Address) (addressEntry, bool) {
	v, ok := m.entries.Get(address)
	if !ok {
		return addressEntry{}, false
	}
	return v.(addressEntry), true
}

func (m *addressMap) put(address Address, entry addressEntry) {
	m.entries.Put(address, entry)
}

func (m *addressMap) each(fn func(Address, addressEntry)) {
	it := m.entries.Iterator()
	for it.Next() {
		fn(it.Key().(Address), it.Value().(addressEntry))
	}
}

// buildAddressMap seeds the map with the fee payer as a writable signer,
// then walks every instruction, marking its program address and merging
// each account meta's role into the map.
//
// Roles merge by unioning the writable and signer bits. A program
// address defaults to readonly non-signer and is never upgraded just by
// being invoked. An entry keeps its first lookup origin across merges,
// except that demanding a signer role forces the account into the
// static list: signers can never be lookup-sourced.
func buildAddressMap(feePayer Address, instructions []Instruction) *addressMap {
	m := newAddressMap()
	m.put(feePayer, addressEntry{role: RoleWritableSigner})

	for _, instruction := range instructions {
		if _, ok := m.get(instruction.ProgramAddress); !ok {
			m.put(instruction.ProgramAddress, addressEntry{role: RoleReadonly})
		}
		for _, meta := range instruction.Accounts {
			m.merge(meta)
		}
	}
	return m
}

func (m *addressMap) merge(meta AccountMeta) {
	existing, ok := m.get(meta.Address)
	if !ok {
		entry := addressEntry{role: meta.Role}
		if meta.Lookup != nil && !meta.Role.IsSigner() {
			lookup := *meta.Lookup
			entry.lookup = &lookup
		}
		m.put(meta.Address, entry)
		return
	}

	entry := addressEntry{
		role:   existing.role.Merge(meta.Role),
		lookup: existing.lookup,
	}
	if entry.role.IsSigner() {
		entry.lookup = nil
	}
	m.put(meta.Address, entry)
}

// orderedAccounts is the canonical account ordering for one
// compilation: writable signers (fee payer first), readonly signers,
// writable non-signers, readonly non-signers, then lookup-sourced
// accounts appended writable before readonly, tables in the order first
// referenced. Every bucket preserves first-seen order.
type orderedAccounts struct {
	accounts []AccountMeta

	numWritableSigners    int
	numReadonlySigners    int
	numWritableNonSigners int
	numReadonlyNonSigners int

	lookups []AddressTableLookup

	index map[Address]int
}

func (o *orderedAccounts) numStatic() int {
	return o.numWritableSigners + o.numReadonlySigners + o.numWritableNonSigners + o.numReadonlyNonSigners
}

func (o *orderedAccounts) total() int {
	return len(o.accounts)
}

func (o *orderedAccounts) staticAddresses() []Address {
	statics := make([]Address, o.numStatic())
	for i := range statics {
		statics[i] = o.accounts[i].Address
	}
	return statics
}

// orderAccounts buckets the address map into the canonical sequence and
// builds the address to index inverse map the compiler resolves
// instruction references through. This stage cannot fail: conflicting
// input roles were already resolved by the merge policy.
func orderAccounts(m *addressMap) *orderedAccounts {
	var (
		writableSigners    []AccountMeta
		readonlySigners    []AccountMeta
		writableNonSigners []AccountMeta
		readonlyNonSigners []AccountMeta
	)

	type tableAccounts struct {
		table    Address
		writable []AccountMeta
		readonly []AccountMeta
	}
	var tables []*tableAccounts
	byTable := make(map[Address]*tableAccounts)

	m.each(func(address Address, entry addressEntry) {
		meta := AccountMeta{Address: address, Role: entry.role, Lookup: entry.lookup}

		if entry.lookup != nil {
			group, ok := byTable[entry.lookup.TableAddress]
			if !ok {
				group = &tableAccounts{table: entry.lookup.TableAddress}
				byTable[entry.lookup.TableAddress] = group
				tables = append(tables, group)
			}
			if entry.role.IsWritable() {
				group.writable = append(group.writable, meta)
			} else {
				group.readonly = append(group.readonly, meta)
			}
			return
		}

		switch {
		case entry.role == RoleWritableSigner:
			writableSigners = append(writableSigners, meta)
		case entry.role == RoleReadonlySigner:
			readonlySigners = append(readonlySigners, meta)
		case entry.role.IsWritable():
			writableNonSigners = append(writableNonSigners, meta)
		default:
			readonlyNonSigners = append(readonlyNonSigners, meta)
		}
	})

	out := &orderedAccounts{
		numWritableSigners:    len(writableSigners),
		numReadonlySigners:    len(readonlySigners),
		numWritableNonSigners: len(writableNonSigners),
		numReadonlyNonSigners: len(readonlyNonSigners),
		index:                 make(map[Address]int),
	}

	out.accounts = append(out.accounts, writableSigners...)
	out.accounts = append(out.accounts, readonlySigners...)
	out.accounts = append(out.accounts, writableNonSigners...)
	out.accounts = append(out.accounts, readonlyNonSigners...)

	for _, group := range tables {
		lookup := AddressTableLookup{LookupTableAddress: group.table}
		for _, meta := range group.writable {
			lookup.WritableIndexes = append(lookup.WritableIndexes, meta.Lookup.Index)
		}
		for _, meta := range group.readonly {
			lookup.ReadonlyIndexes = append(lookup.ReadonlyIndexes, meta.Lookup.Index)
		}
		out.lookups = append(out.lookups, lookup)
	}
	for _, group := range tables {
		out.accounts = append(out.accounts, group.writable...)
	}
	for _, group := range tables {
		out.accounts = append(out.accounts, group.readonly...)
	}

	for i, meta := range out.accounts {
		out.index[meta.Address] = i
	}
	return out
}
