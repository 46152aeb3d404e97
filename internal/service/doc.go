// Package service provides application-level services for managing
// categories, blocks, tasks, quotes and the aggregate statistics over them.
//
// Services own the business rules the stores do not: category inheritance
// between blocks and tasks, queue numbering, and the recurrence cycle that
// completes and resets a block's tasks. Multi-step mutations run inside a
// single database transaction via TxRunner.
package service
