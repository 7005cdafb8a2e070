package readers

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"golang.org/x/sync/errgroup"

	"github.com/dataguard/dataguard/internal/observability"
)

// openParquet opens path and wraps it in a pqarrow.FileReader configured
// with the requested batch size.
func openParquet(path string, cfg Config, mem memory.Allocator) (*file.Reader, *pqarrow.FileReader, error) {
	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, nil, err
	}
	arrowRdr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{BatchSize: cfg.BatchSize}, mem)
	if err != nil {
		rdr.Close()
		return nil, nil, err
	}
	return rdr, arrowRdr, nil
}

// columnIndices resolves requested column names to their position in the
// Parquet-derived Arrow schema, silently dropping names that are not
// present (mirrors the source reader's column-projection behavior).
func columnIndices(schema *arrow.Schema, columns []string) []int {
	idxs := make([]int, 0, len(columns))
	for _, name := range columns {
		found := schema.FieldIndices(name)
		if len(found) > 0 {
			idxs = append(idxs, found[0])
		}
	}
	return idxs
}

// ReadParquetSequential reads every row group of path through a single
// pqarrow record reader.
func ReadParquetSequential(path string, columns []string, cfg Config, mem memory.Allocator) ([]arrow.Record, error) {
	rdr, arrowRdr, err := openParquet(path, cfg, mem)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	schema, err := arrowRdr.Schema()
	if err != nil {
		return nil, err
	}
	cols := columnIndices(schema, columns)

	recordReader, err := arrowRdr.GetRecordReader(context.Background(), cols, nil)
	if err != nil {
		return nil, err
	}
	defer recordReader.Release()

	var batches []arrow.Record
	for recordReader.Next() {
		rec := recordReader.Record()
		rec.Retain()
		batches = append(batches, rec)
	}
	if err := recordReader.Err(); err != nil {
		for _, b := range batches {
			b.Release()
		}
		return nil, err
	}
	return batches, nil
}

// ReadParquetParallel reads each row group concurrently, each worker
// opening its own file handle, mirroring the sequential reader's column
// projection (spec.md §5, "parallel" reading strategy).
func ReadParquetParallel(path string, columns []string, cfg Config, mem memory.Allocator, numThreads int) ([]arrow.Record, error) {
	rdr, arrowRdr, err := openParquet(path, cfg, mem)
	if err != nil {
		return nil, err
	}
	schema, err := arrowRdr.Schema()
	if err != nil {
		rdr.Close()
		return nil, err
	}
	cols := columnIndices(schema, columns)
	numRowGroups := rdr.NumRowGroups()
	rdr.Close()

	results := make([][]arrow.Record, numRowGroups)
	g := new(errgroup.Group)
	g.SetLimit(numThreads)
	for i := 0; i < numRowGroups; i++ {
		i := i
		g.Go(func() error {
			batches, err := readRowGroup(path, cols, i, cfg, mem)
			if err != nil {
				return fmt.Errorf("row group %d: %w", i, err)
			}
			results[i] = batches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, batches := range results {
			for _, b := range batches {
				b.Release()
			}
		}
		return nil, err
	}

	observability.ReaderChunksTotal.WithLabelValues("parquet").Add(float64(numRowGroups))

	var out []arrow.Record
	for _, batches := range results {
		out = append(out, batches...)
	}
	return out, nil
}

func readRowGroup(path string, cols []int, rowGroup int, cfg Config, mem memory.Allocator) ([]arrow.Record, error) {
	rdr, arrowRdr, err := openParquet(path, cfg, mem)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	recordReader, err := arrowRdr.GetRecordReader(context.Background(), cols, []int{rowGroup})
	if err != nil {
		return nil, err
	}
	defer recordReader.Release()

	var batches []arrow.Record
	for recordReader.Next() {
		rec := recordReader.Record()
		rec.Retain()
		batches = append(batches, rec)
	}
	if err := recordReader.Err(); err != nil {
		for _, b := range batches {
			b.Release()
		}
		return nil, err
	}
	return batches, nil
}

// streamingParquetSource implements engine.BatchSource over one long-lived
// record reader spanning the whole file, one row group at a time under the
// hood via pqarrow's own batching.
type streamingParquetSource struct {
	rdr          *file.Reader
	recordReader array.RecordReader
}

// OpenParquetStream opens path fresh and returns a BatchSource reading from
// row group 0; called a second time by the engine's statistical second
// pass.
func OpenParquetStream(path string, columns []string, cfg Config, mem memory.Allocator) (*streamingParquetSource, error) {
	rdr, arrowRdr, err := openParquet(path, cfg, mem)
	if err != nil {
		return nil, err
	}
	schema, err := arrowRdr.Schema()
	if err != nil {
		rdr.Close()
		return nil, err
	}
	cols := columnIndices(schema, columns)
	recordReader, err := arrowRdr.GetRecordReader(context.Background(), cols, nil)
	if err != nil {
		rdr.Close()
		return nil, err
	}
	return &streamingParquetSource{rdr: rdr, recordReader: recordReader}, nil
}

func (s *streamingParquetSource) Next() (arrow.Record, error) {
	if !s.recordReader.Next() {
		if err := s.recordReader.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	rec := s.recordReader.Record()
	rec.Retain()
	return rec, nil
}

// Close releases the underlying record reader and file handle.
func (s *streamingParquetSource) Close() error {
	s.recordReader.Release()
	return s.rdr.Close()
}
