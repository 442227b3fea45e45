package token

import (
	"fmt"
	"math"
	"testing"

	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/escrowtest/assert"
)

func TestValidToken(t *testing.T) {
	cases := map[string]struct {
		token   Token
		wantErr *errors.Error
	}{
		"valid short mint": {
			token: NewToken("ABC", 100),
		},
		"valid long mint": {
			token: NewToken("SOLUSDC123", 1),
		},
		"valid zero amount": {
			token: NewToken("ABC", 0),
		},
		"mint too short": {
			token:   NewToken("AB", 100),
			wantErr: errors.ErrInvalidInput,
		},
		"mint too long": {
			token:   NewToken("ABCDEFGHIJK", 100),
			wantErr: errors.ErrInvalidInput,
		},
		"lowercase mint": {
			token:   NewToken("abc", 100),
			wantErr: errors.ErrInvalidInput,
		},
		"empty mint": {
			token:   NewToken("", 100),
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if !tc.wantErr.Is(tc.token.Validate()) {
				t.Fatalf("unexpected error: %+v", tc.token.Validate())
			}
		})
	}
}

func TestAdd(t *testing.T) {
	cases := map[string]struct {
		a, b    Token
		want    Token
		wantErr *errors.Error
	}{
		"happy path": {
			a:    NewToken("ABC", 100),
			b:    NewToken("ABC", 20),
			want: NewToken("ABC", 120),
		},
		"add zero": {
			a:    NewToken("ABC", 100),
			b:    NewToken("ABC", 0),
			want: NewToken("ABC", 100),
		},
		"overflow": {
			a:       NewToken("ABC", math.MaxUint64),
			b:       NewToken("ABC", 1),
			wantErr: errors.ErrOverflow,
		},
		"mint mismatch": {
			a:       NewToken("ABC", 100),
			b:       NewToken("XYZ", 100),
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && !got.Equals(tc.want) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSubtract(t *testing.T) {
	cases := map[string]struct {
		a, b    Token
		want    Token
		wantErr *errors.Error
	}{
		"happy path": {
			a:    NewToken("ABC", 100),
			b:    NewToken("ABC", 20),
			want: NewToken("ABC", 80),
		},
		"to zero": {
			a:    NewToken("ABC", 100),
			b:    NewToken("ABC", 100),
			want: NewToken("ABC", 0),
		},
		"underflow": {
			a:       NewToken("ABC", 20),
			b:       NewToken("ABC", 100),
			wantErr: errors.ErrInsufficientAmount,
		},
		"mint mismatch": {
			a:       NewToken("ABC", 100),
			b:       NewToken("XYZ", 1),
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Subtract(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && !got.Equals(tc.want) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	tok := NewToken("ABC", 50)
	assert.Equal(t, "50 ABC", tok.String())
	// the pointer form must render the same way
	assert.Equal(t, "50 ABC", fmt.Sprintf("%s", &tok))
}

func TestSerialization(t *testing.T) {
	orig := NewTokenp("USDC", 250)
	bz, err := orig.Marshal()
	assert.Nil(t, err)

	var got Token
	assert.Nil(t, got.Unmarshal(bz))
	assert.Equal(t, *orig, got)
}
