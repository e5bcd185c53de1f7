package format

import (
	"errors"
	"testing"
)

func TestSniff(t *testing.T) {
	cases := []struct {
		ext  string
		head string
		want Choice
	}{
		{"stl", "solid ", AsciiSTL},
		{"STL", "solid ", AsciiSTL},
		{".stl", "soli", AsciiSTL}, // short head that is a prefix of "solid"
		{"stl", "\x00\x01\x02\x03\x04\x05", BinarySTL},
		{"stl", "header", BinarySTL},
		{"obj", "# any", OBJ},
		{"OBJ", "", OBJ},
	}
	for _, c := range cases {
		got, err := Sniff(c.ext, []byte(c.head))
		if err != nil {
			t.Fatalf("Sniff(%q, %q): %v", c.ext, c.head, err)
		}
		if got != c.want {
			t.Fatalf("Sniff(%q, %q) = %v, want %v", c.ext, c.head, got, c.want)
		}
	}
}

func TestSniffUnsupported(t *testing.T) {
	for _, ext := range []string{"ply", "gltf", "", "stlx"} {
		if _, err := Sniff(ext, nil); !errors.Is(err, ErrUnsupportedExtension) {
			t.Fatalf("Sniff(%q) err = %v, want ErrUnsupportedExtension", ext, err)
		}
	}
}
