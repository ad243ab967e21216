package scan

// Observer receives scan progress. Implementations must be safe for
// concurrent use; FileHashed is called from pool workers.
type Observer interface {
	ScanningDirectory(root string)
	Enumerated(files int)
	Hashing(candidates int)
	FileHashed(path string, err error)
	Verifying(files int)
}

// NopObserver discards all progress.
type NopObserver struct{}

func (NopObserver) ScanningDirectory(string) {}
func (NopObserver) Enumerated(int)           {}
func (NopObserver) Hashing(int)              {}
func (NopObserver) FileHashed(string, error) {}
func (NopObserver) Verifying(int)            {}
