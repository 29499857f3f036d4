package dbal

// Hooks defines lifecycle callbacks around the write helpers. A Before
// callback returning an error aborts the operation before any SQL is built;
// an After callback error is surfaced to the caller after the operation
// completed.
type Hooks interface {
	BeforeInsert(table string, data Params) error
	AfterInsert(table string, data Params, id string) error
	BeforeUpdate(table string, data, conditions Params) error
	AfterUpdate(table string, data, conditions Params, affected int64) error
	BeforeDelete(table string, conditions Params) error
	AfterDelete(table string, conditions Params, affected int64) error
}
