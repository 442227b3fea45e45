package holdings

import (
	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/token"
)

// GenesisAccount is the serialization format of one account in the
// genesis file
type GenesisAccount struct {
	Address escrow.Address `json:"address"`
	Tokens  []*token.Token `json:"tokens"`
}

// Initializer fulfils the escrow.Initializer interface to load data
// from the genesis file
type Initializer struct{}

var _ escrow.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from the genesis and
// save it to the database
func (*Initializer) FromGenesis(opts escrow.Options, db escrow.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("holdings", &accounts); err != nil {
		return errors.Wrap(err, "cannot parse holdings genesis")
	}

	bucket := NewBucket()
	for i, acct := range accounts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		// deposit one by one, so genesis files need not be sorted
		obj := NewAccount(acct.Address)
		for _, t := range acct.Tokens {
			if err := AsAccount(obj).Add(*t); err != nil {
				return errors.Wrapf(err, "account #%d", i)
			}
		}
		if err := bucket.Save(db, obj); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
