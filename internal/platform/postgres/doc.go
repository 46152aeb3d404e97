// Package postgres implements the store interfaces over PostgreSQL using
// database/sql with the pgx stdlib driver.
//
// Every store accepts a store.DBTX so it runs identically on a pooled
// connection or inside a transaction; WithTx rebinds a store to an open
// *sql.Tx. Database errors are translated to the store error taxonomy by
// MapError, keeping PostgreSQL error codes out of the layers above.
package postgres
