package holdings

import (
	"testing"

	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/escrowtest"
	"github.com/tokentrust/escrow/escrowtest/assert"
	"github.com/tokentrust/escrow/token"
)

func TestAccountValidate(t *testing.T) {
	cases := map[string]struct {
		account Account
		wantErr *errors.Error
	}{
		"empty account": {
			account: Account{},
		},
		"single token": {
			account: Account{Tokens: []*token.Token{
				token.NewTokenp("ABC", 5),
			}},
		},
		"sorted tokens": {
			account: Account{Tokens: []*token.Token{
				token.NewTokenp("ABC", 5),
				token.NewTokenp("XYZ", 10),
			}},
		},
		"unsorted tokens": {
			account: Account{Tokens: []*token.Token{
				token.NewTokenp("XYZ", 10),
				token.NewTokenp("ABC", 5),
			}},
			wantErr: errors.ErrInvalidState,
		},
		"duplicate mint": {
			account: Account{Tokens: []*token.Token{
				token.NewTokenp("ABC", 5),
				token.NewTokenp("ABC", 10),
			}},
			wantErr: errors.ErrInvalidState,
		},
		"zero entry": {
			account: Account{Tokens: []*token.Token{
				token.NewTokenp("ABC", 0),
			}},
			wantErr: errors.ErrInvalidAmount,
		},
		"invalid mint": {
			account: Account{Tokens: []*token.Token{
				token.NewTokenp("ab", 5),
			}},
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if !tc.wantErr.Is(tc.account.Validate()) {
				t.Fatalf("unexpected error: %+v", tc.account.Validate())
			}
		})
	}
}

func TestAccountAddSubtract(t *testing.T) {
	var a Account

	assert.Nil(t, a.Add(token.NewToken("XYZ", 10)))
	assert.Nil(t, a.Add(token.NewToken("ABC", 5)))
	// entries are kept sorted no matter the insert order
	assert.Nil(t, a.Validate())
	assert.Equal(t, token.NewToken("ABC", 5), a.Balance("ABC"))
	assert.Equal(t, token.NewToken("XYZ", 10), a.Balance("XYZ"))

	// merge into existing entry
	assert.Nil(t, a.Add(token.NewToken("ABC", 3)))
	assert.Equal(t, token.NewToken("ABC", 8), a.Balance("ABC"))

	// partial withdrawal
	assert.Nil(t, a.Subtract(token.NewToken("ABC", 6)))
	assert.Equal(t, token.NewToken("ABC", 2), a.Balance("ABC"))

	// drained entries disappear
	assert.Nil(t, a.Subtract(token.NewToken("ABC", 2)))
	assert.Equal(t, token.NewToken("ABC", 0), a.Balance("ABC"))
	if len(a.Tokens) != 1 {
		t.Fatalf("want only XYZ left, got %v", a.Tokens)
	}

	// cannot overdraw
	err := a.Subtract(token.NewToken("XYZ", 11))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	// failed withdrawal leaves the balance alone
	assert.Equal(t, token.NewToken("XYZ", 10), a.Balance("XYZ"))

	// unknown mint counts as zero
	err = a.Subtract(token.NewToken("FOO", 1))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
}

func TestAccountCopyIsDeep(t *testing.T) {
	a := Account{Tokens: []*token.Token{token.NewTokenp("ABC", 5)}}
	cpy := a.Copy().(*Account)

	assert.Nil(t, cpy.Add(token.NewToken("ABC", 10)))
	assert.Equal(t, token.NewToken("ABC", 5), a.Balance("ABC"))
	assert.Equal(t, token.NewToken("ABC", 15), cpy.Balance("ABC"))
}

func TestAccountSerialization(t *testing.T) {
	addr := escrowtest.NewCondition(1).Address()
	obj := NewAccount(addr, token.NewTokenp("ABC", 5), token.NewTokenp("XYZ", 10))

	bz, err := obj.Value().Marshal()
	assert.Nil(t, err)

	var got Account
	assert.Nil(t, got.Unmarshal(bz))
	assert.Equal(t, token.NewToken("ABC", 5), got.Balance("ABC"))
	assert.Equal(t, token.NewToken("XYZ", 10), got.Balance("XYZ"))
}
