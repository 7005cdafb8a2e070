package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/dataguard/dataguard/internal/observability"
)

// csvSchema builds an all-Utf8 Arrow schema for columns: CSV cells are read
// as strings regardless of a column's logical type, and internal/engine's
// TypeCheck cast kernels (spec.md §4.4) turn them into typed arrays.
func csvSchema(columns []string) *arrow.Schema {
	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// ReadCSVSequential reads the whole file through a single arrow/csv.Reader,
// returning every batch it produced.
func ReadCSVSequential(path string, columns []string, cfg Config, mem memory.Allocator) ([]arrow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f, csvSchema(columns),
		csv.WithHeader(true),
		csv.WithChunk(int(cfg.BatchSize)),
		csv.WithAllocator(mem),
	)
	defer r.Release()

	var batches []arrow.Record
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		batches = append(batches, rec)
	}
	if err := r.Err(); err != nil && err != io.EOF {
		for _, b := range batches {
			b.Release()
		}
		return nil, err
	}
	return batches, nil
}

// chunkBound is a byte range [Start, End) aligned so Start falls right
// after a newline (or at byte 0) and End falls right after one too, so no
// row is split across two chunks.
type chunkBound struct {
	Start, End int64
}

// planChunks divides [headerEnd, fileSize) into roughly cfg.ChunkSize(...)
// byte spans, nudging each boundary forward to the next newline so every
// chunk starts and ends on a row boundary.
func planChunks(f *os.File, fileSize, headerEnd int64, cfg Config, numThreads int) ([]chunkBound, error) {
	chunkSize := cfg.ChunkSize(fileSize, headerEnd, numThreads)
	if chunkSize <= 0 {
		return []chunkBound{{Start: headerEnd, End: fileSize}}, nil
	}

	var bounds []chunkBound
	start := headerEnd
	for start < fileSize {
		target := start + chunkSize
		end := target
		if end < fileSize {
			aligned, err := nextNewline(f, target)
			if err != nil {
				return nil, err
			}
			end = aligned
		} else {
			end = fileSize
		}
		if end <= start {
			end = fileSize
		}
		bounds = append(bounds, chunkBound{Start: start, End: end})
		start = end
	}
	return bounds, nil
}

// nextNewline returns the offset just past the first '\n' at or after off,
// or fileSize if none is found before EOF.
func nextNewline(f *os.File, off int64) (int64, error) {
	buf := bufio.NewReaderSize(io.NewSectionReader(f, off, 1<<62), 64*1024)
	n, err := buf.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}
	return off + int64(len(n)), nil
}

// readHeaderLine returns the header line (without trailing newline) and its
// byte length including the newline, so callers can compute headerEnd.
func readHeaderLine(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", 0, err
	}
	return strings.TrimRight(line, "\r\n"), int64(len(line)), nil
}

// ReadCSVParallel splits the file into byte-aligned chunks and decodes each
// chunk concurrently, each worker opening its own file handle and
// prepending the shared header line so every chunk's reader sees a valid
// CSV header (spec.md §5, "parallel" reading strategy).
func ReadCSVParallel(path string, columns []string, cfg Config, mem memory.Allocator, numThreads int) ([]arrow.Record, error) {
	header, headerEnd, err := readHeaderLine(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	fileSize := info.Size()
	bounds, err := planChunks(f, fileSize, headerEnd, cfg, numThreads)
	f.Close()
	if err != nil {
		return nil, err
	}

	schema := csvSchema(columns)
	results := make([][]arrow.Record, len(bounds))

	g := new(errgroup.Group)
	g.SetLimit(numThreads)
	for i, b := range bounds {
		i, b := i, b
		g.Go(func() error {
			batches, err := readChunk(path, header, b, schema, cfg, mem)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
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

	observability.ReaderChunksTotal.WithLabelValues("csv").Add(float64(len(bounds)))

	var out []arrow.Record
	for _, batches := range results {
		out = append(out, batches...)
	}
	return out, nil
}

func readChunk(path, header string, b chunkBound, schema *arrow.Schema, cfg Config, mem memory.Allocator) ([]arrow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	body := io.NewSectionReader(f, b.Start, b.End-b.Start)
	combined := io.MultiReader(strings.NewReader(header+"\n"), body)

	r := csv.NewReader(combined, schema,
		csv.WithHeader(true),
		csv.WithChunk(int(cfg.BatchSize)),
		csv.WithAllocator(mem),
	)
	defer r.Release()

	var batches []arrow.Record
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		batches = append(batches, rec)
	}
	if err := r.Err(); err != nil && err != io.EOF {
		for _, rec := range batches {
			rec.Release()
		}
		return nil, err
	}
	return batches, nil
}

// streamingCSVSource implements engine.BatchSource by keeping one
// arrow/csv.Reader open across Next calls, so the whole file is never
// resident at once (spec.md §4.6, streaming mode).
type streamingCSVSource struct {
	file *os.File
	r    *csv.Reader
}

// OpenCSVStream opens path fresh and returns a BatchSource reading from the
// start; called a second time by the engine's statistical second pass.
func OpenCSVStream(path string, columns []string, cfg Config, mem memory.Allocator) (*streamingCSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f, csvSchema(columns),
		csv.WithHeader(true),
		csv.WithChunk(int(cfg.BatchSize)),
		csv.WithAllocator(mem),
	)
	return &streamingCSVSource{file: f, r: r}, nil
}

func (s *streamingCSVSource) Next() (arrow.Record, error) {
	if !s.r.Next() {
		if err := s.r.Err(); err != nil && err != io.EOF {
			return nil, err
		}
		return nil, io.EOF
	}
	rec := s.r.Record()
	rec.Retain()
	return rec, nil
}

// Close releases the underlying reader and file handle.
func (s *streamingCSVSource) Close() error {
	s.r.Release()
	return s.file.Close()
}
