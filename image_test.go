package vtcore

import "testing"

func TestImageRegistryStoreAndLookup(t *testing.T) {
	r := NewImageRegistry()

	id := r.Store(2, 2, make([]byte, 16))
	if img := r.Image(id); img == nil || img.Width != 2 {
		t.Fatalf("expected stored image, got %+v", img)
	}
	if r.Count() != 1 {
		t.Errorf("expected 1 image, got %d", r.Count())
	}
	if r.UsedMemory() != 16 {
		t.Errorf("expected 16 bytes used, got %d", r.UsedMemory())
	}
}

func TestImageRegistryReclaim(t *testing.T) {
	r := NewImageRegistry()

	id := r.Store(2, 2, make([]byte, 16))
	r.AddRef(id)
	r.Reclaim()
	if r.Image(id) == nil {
		t.Fatalf("expected referenced image to survive reclaim")
	}

	r.Release(id)
	r.Reclaim()
	if r.Image(id) != nil {
		t.Errorf("expected unreferenced image reclaimed")
	}
	if r.UsedMemory() != 0 {
		t.Errorf("expected no memory used, got %d", r.UsedMemory())
	}
}

func TestOverwritingImageCellReleasesReference(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1bP0;0;0q\"1;1;4;4#2~~\x1b\\")
	cell, _ := s.Cell(0, 0)
	if cell.Image == nil {
		t.Fatalf("expected image fragment")
	}
	id := cell.Image.ImageID

	// Overwrite every covered cell, then reclaim.
	s.WriteString("\x1b[1;1HX")
	s.mu.Lock()
	s.images.Reclaim()
	s.mu.Unlock()

	if s.Image(id) != nil {
		t.Errorf("expected image reclaimed after overwrite")
	}
}

func TestHyperlinkRegistryInterning(t *testing.T) {
	r := NewHyperlinkRegistry()

	a := r.Intern("x", "https://a")
	b := r.Intern("x", "https://a")
	c := r.Intern("", "https://a")

	if a != b {
		t.Errorf("expected identical links interned once")
	}
	if a == c {
		t.Errorf("expected distinct entries for different ids")
	}
	if r.Link(a).URI != "https://a" {
		t.Errorf("unexpected link %+v", r.Link(a))
	}
}

func TestHyperlinkRegistryReclaim(t *testing.T) {
	r := NewHyperlinkRegistry()

	id := r.Intern("", "https://a")
	r.AddRef(id)
	r.Release(id)
	r.Reclaim()

	if r.Link(id) != nil {
		t.Errorf("expected unreferenced link reclaimed")
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
}
