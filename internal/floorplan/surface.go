package floorplan

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Surface displays rendered frames.
type Surface interface {
	Show(Frame) error
}

// BufferSurface keeps the latest frame in memory.
type BufferSurface struct {
	mu     sync.Mutex
	last   Frame
	frames int
}

func (b *BufferSurface) Show(f Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = f
	b.frames++
	return nil
}

// Last returns the most recent frame and whether any frame was shown.
func (b *BufferSurface) Last() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.frames > 0
}

// Frames returns the number of frames shown.
func (b *BufferSurface) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// FileSurface writes every frame to Path, replacing the previous content.
type FileSurface struct {
	Path string
}

func (s FileSurface) Show(f Frame) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".plan-*.svg")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.SVG); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.Path, err)
	}
	return nil
}
