// Package grant holds explicit per-order permission records. A grant gives one
// user a set of capabilities (approve, edit, ship, cancel) on one order inside a
// module namespace, independently of ownership.
package grant
