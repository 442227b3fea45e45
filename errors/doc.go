/*
Package errors implements custom error interfaces for the escrow module.

Error declarations should be generic and cover broad range of cases. Each
returned error instance can wrap a generic error declaration to provide more
details.
This package provides a broad range of errors declared that can be used
throughout the application. In addition, extensions may register their own
error kinds with codes greater than 1000.
*/
package errors
