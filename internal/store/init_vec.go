//go:build sqlite_vec && cgo

package store

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Register sqlite-vec with the go-sqlite3 driver as an auto-loaded
	// extension so every connection gets the vec functions.
	vec.Auto()
}
