// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/dlisio-go/welog/internal/log"
)

// Format identifies which of the two well-log binary formats a File was
// recognized as.
type Format int

const (
	FormatUnknown Format = iota
	FormatDLIS
	FormatLIS79
)

func (f Format) String() string {
	switch f {
	case FormatDLIS:
		return "DLIS"
	case FormatLIS79:
		return "LIS79"
	default:
		return "unknown"
	}
}

// DLISFile is the parsed top-level state of a DLIS/RP66 v1 file: its
// Storage Unit Label, the offsets of every logical record found by
// indexing the stream, and the pool of Explicitly Formatted Logical
// Records built from those offsets.
type DLISFile struct {
	SUL     StorageUnitLabel
	Offsets StreamOffsets
	Pool    *Pool
}

// LISFile is the parsed top-level state of a LIS79 file: the offsets of
// every logical record found by indexing the stream.
type LISFile struct {
	Offsets LISStreamOffsets
}

// File represents an open well-log binary file, either DLIS or LIS79.
// Only the fields matching Format are populated.
type File struct {
	Format Format
	DLIS   *DLISFile
	LIS    *LISFile

	Header []byte

	data   mmap.MMap
	view   []byte // data with any leading tape mark stripped
	stream Stream
	size   int64
	f      *os.File
	opts   *Options
	logger *log.Helper
}

// Options configures parsing.
type Options struct {
	// Matcher is used by the DLIS Pool for type/name queries, by default
	// ExactMatcher.
	Matcher Matcher

	// ErrorHandler receives recoverable Diagnostics encountered while
	// indexing and parsing, by default a CollectingHandler.
	ErrorHandler ErrorHandler

	// A custom logger.
	Logger log.Logger
}

func (o *Options) matcher() Matcher {
	if o.Matcher == nil {
		return ExactMatcher{}
	}
	return o.Matcher
}

func (o *Options) errorHandler() ErrorHandler {
	if o.ErrorHandler == nil {
		return NewCollectingHandler()
	}
	return o.ErrorHandler
}

func newLoggerHelper(opts *Options) *log.Helper {
	if opts.Logger != nil {
		return log.NewHelper(opts.Logger)
	}
	logger := log.NewStdLogger(os.Stdout)
	return log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError)))
}

// Open instantiates a File given a file name, memory-mapping its content.
func Open(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := newFile(data, opts)
	file.f = f
	return file, nil
}

// OpenBytes instantiates a File given an in-memory buffer.
func OpenBytes(data []byte, opts *Options) (*File, error) {
	return newFile(data, opts), nil
}

func newFile(data []byte, opts *Options) *File {
	file := &File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}
	file.logger = newLoggerHelper(file.opts)

	file.data = data
	file.size = int64(len(data))

	raw := newRawStream(data, nil)
	file.view = data
	if HasTapeMark(data) {
		file.stream = newTapeImageStream(raw)
		file.view = data[tapeMarkSize:]
	} else {
		file.stream = raw
	}

	return file
}

// Stream exposes the File's underlying Stream, letting a caller re-read
// logical records at offsets recorded in DLIS.Offsets or LIS.Offsets
// (e.g. to decode frame data after inspecting the object pool).
func (file *File) Stream() Stream { return file.stream }

// Close closes the File, unmapping its backing memory if it owns it.
func (file *File) Close() error {
	if file.data != nil {
		_ = file.data.Unmap()
	}
	if file.f != nil {
		return file.f.Close()
	}
	return nil
}

// sniffLIS reports whether the first logical record at offset 0 looks
// like a well-formed LIS79 Physical/Logical Record Header pair.
func sniffLIS(data []byte) bool {
	if len(data) < prhSize+lrhSize {
		return false
	}
	prh, err := ParseLISPRH(data[0:prhSize])
	if err != nil || prh.Length < prhSize+lrhSize {
		return false
	}
	lrh, err := ParseLISLRH(data[prhSize : prhSize+lrhSize])
	if err != nil {
		return false
	}
	return lrh.Type.Valid()
}

// Parse detects which of DLIS or LIS79 the file's content is and
// populates the corresponding field.
func (file *File) Parse() error {
	handler := file.opts.errorHandler()

	if sulOffset, err := FindSUL(file.view); err == nil {
		sul, sulErr := ParseSUL(file.view[sulOffset:])
		if sulErr != nil {
			file.logger.Warnf("storage unit label parsing reported an inconsistency: %v", sulErr)
		}

		if _, err := file.stream.Seek(sulOffset+sulSize, io.SeekStart); err != nil {
			return wrapErr("welog: parse", sulOffset, err)
		}

		offsets := FindOffsets(file.stream, handler)
		sets := make([]*ObjectSet, 0, len(offsets.Explicits))
		for _, tell := range offsets.Explicits {
			rec, err := ExtractRecord(file.stream, tell, 1<<31, handler)
			if err != nil {
				file.logger.Warnf("failed to extract logical record at %d: %v", tell, err)
				continue
			}
			if rec.IsEncrypted() || !rec.IsExplicit() {
				continue
			}
			sets = append(sets, NewObjectSet(rec))
		}

		file.Format = FormatDLIS
		file.DLIS = &DLISFile{
			SUL:     sul,
			Offsets: offsets,
			Pool:    NewPool(sets, file.opts.matcher()),
		}
		return nil
	}

	if sniffLIS(file.view) {
		if _, err := file.stream.Seek(0, io.SeekStart); err != nil {
			return wrapErr("welog: parse", 0, err)
		}
		offsets := IndexLISRecords(file.stream, handler)
		file.Format = FormatLIS79
		file.LIS = &LISFile{Offsets: offsets}
		return nil
	}

	return wrapErr("welog: parse", 0, ErrUnexpectedValue)
}
