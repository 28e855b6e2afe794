package repository

// Tx is an opaque handle for an execution context passed through repository
// calls. Implementations accept their own transaction or connection types
// (e.g. pgx.Tx, *pgxpool.Pool) or nil for the default pool.
type Tx = any
