// Package database owns the sqlite connection and schema migration.
//
// Entity-specific operations live in the subpackages:
//
//   - catalog: books and the available-quantity counter
//   - members: the borrower roster
//   - ledger: loan issue/return records
//
// Each subpackage exposes a Repository over *gorm.DB and implements the
// store interface its HTTP controller declares.
package database
