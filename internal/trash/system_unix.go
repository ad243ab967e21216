//go:build !darwin && !windows

package trash

// System returns the user's freedesktop home trash.
func System() (Remover, error) {
	root, err := DefaultRoot()
	if err != nil {
		return nil, err
	}
	return New(root), nil
}
