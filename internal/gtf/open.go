package gtf

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// File is an opened GTF input. Plain files seek freely. Gzipped files can
// only be rewound to the start, which is all a second pass needs.
type File struct {
	file *os.File
	gz   *gzip.Reader
}

// Open opens a plain or gzipped GTF file. "-" returns stdin, which cannot be
// rewound.
func Open(path string) (*File, error) {
	if path == "-" {
		return &File{file: os.Stdin}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}

	gzipped, err := isGzip(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	gf := &File{file: f}
	if gzipped {
		gf.gz, err = gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
	}
	return gf, nil
}

// isGzip checks for the gzip magic number (0x1f, 0x8b) and seeks back.
func isGzip(f *os.File) (bool, error) {
	buf := make([]byte, 2)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, fmt.Errorf("read GTF header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("seek GTF file: %w", err)
	}
	return n == 2 && buf[0] == 0x1f && buf[1] == 0x8b, nil
}

// Read implements io.Reader over the decompressed content.
func (f *File) Read(p []byte) (int, error) {
	if f.gz != nil {
		return f.gz.Read(p)
	}
	return f.file.Read(p)
}

// Seek implements io.Seeker. For gzipped input only Seek(0, io.SeekStart)
// and Seek(0, io.SeekCurrent) are supported.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.gz == nil {
		return f.file.Seek(offset, whence)
	}

	switch {
	case offset == 0 && whence == io.SeekCurrent:
		// Probe: fails the same way as the underlying file would.
		if _, err := f.file.Seek(0, io.SeekCurrent); err != nil {
			return 0, err
		}
		return 0, nil
	case offset == 0 && whence == io.SeekStart:
		if _, err := f.file.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
		if err := f.gz.Reset(f.file); err != nil {
			return 0, fmt.Errorf("reset gzip reader: %w", err)
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("gzip input supports rewinding only: %w", ErrNotSeekable)
	}
}

// Close closes the file. Stdin is left open.
func (f *File) Close() error {
	if f.gz != nil {
		f.gz.Close()
	}
	if f.file == os.Stdin {
		return nil
	}
	return f.file.Close()
}
