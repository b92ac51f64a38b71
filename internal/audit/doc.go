// Package audit records every thumbnail pick in a SQLite ledger so operators
// can see which decision path produced each override, and when.
package audit
