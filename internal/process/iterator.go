package process

// NewIterator returns the platform-appropriate Iterator for f. The concrete
// backend (Linux/FreeBSD/macOS) is chosen at compile time; see
// iterator_linux.go, iterator_freebsd.go and iterator_darwin.go.
func NewIterator(f Filter) (Iterator, error) {
	return newIterator(f)
}
