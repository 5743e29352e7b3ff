package testutil

import "github.com/frudas24/deskpad/internal/viewport"

// FakeSurface tracks pointer capture.
type FakeSurface struct {
	Captured map[int]bool
	Releases int
}

// CapturePointer marks id captured.
func (f *FakeSurface) CapturePointer(id int) {
	if f.Captured == nil {
		f.Captured = make(map[int]bool)
	}
	f.Captured[id] = true
}

// ReleasePointer clears the capture of id.
func (f *FakeSurface) ReleasePointer(id int) {
	delete(f.Captured, id)
	f.Releases++
}

// FakeMedia is a fixed media size.
type FakeMedia struct {
	Size viewport.Size
}

// MediaSize returns the configured size.
func (f *FakeMedia) MediaSize() viewport.Size {
	return f.Size
}
