// Package readers turns a CSV or Parquet file on disk into a sequence of
// Arrow record batches for internal/engine, in one of three modes:
// sequential, parallel (whole file resident, batches produced concurrently),
// or streaming (bounded memory, one open file handle, read on demand).
package readers
