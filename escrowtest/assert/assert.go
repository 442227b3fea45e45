/*
Package assert provides minimal assert helpers for tests that do not
need the full testify surface.
*/
package assert

import (
	"reflect"

	"github.com/tokentrust/escrow/errors"
)

// Tester is the minimal subset of testing.TB needed to run most of
// the assert functions.
type Tester interface {
	Helper()
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

// Nil fails the test if given value is not nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %#v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if two values are not equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %#v\n got %#v", want, got)
	}
}

// Panics runs given function and fails the test if it does not panic.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test if "got" error is not part of the "want" error
// family.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	if !want.Is(got) {
		t.Fatalf("want %q error, got %+v", want, got)
	}
}

// FieldError ensures that given error contains the exact match of a
// single field error, tested by the root cause.
func FieldError(t Tester, err error, fieldName string, want *errors.Error) {
	t.Helper()
	fieldErrs := errors.FieldErrors(err, fieldName)
	switch len(fieldErrs) {
	case 0:
		if want != nil {
			t.Fatalf("no error for the %q field", fieldName)
		}
	case 1:
		if !want.Is(fieldErrs[0]) {
			t.Fatalf("unexpected error for the %q field: %+v", fieldName, fieldErrs[0])
		}
	default:
		t.Fatalf("multiple errors for the %q field: %+v", fieldName, fieldErrs)
	}
}
