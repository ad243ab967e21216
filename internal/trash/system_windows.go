package trash

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	foDelete          = 0x3
	fofSilent         = 0x4
	fofNoConfirmation = 0x10
	fofAllowUndo      = 0x40
	fofNoErrorUI      = 0x400
)

// shFileOpStruct mirrors SHFILEOPSTRUCTW.
type shFileOpStruct struct {
	hwnd                  uintptr
	wFunc                 uint32
	pFrom                 *uint16
	pTo                   *uint16
	fFlags                uint16
	fAnyOperationsAborted int32
	hNameMappings         uintptr
	lpszProgressTitle     *uint16
}

var procSHFileOperationW = windows.NewLazySystemDLL("shell32.dll").NewProc("SHFileOperationW")

// recycleBin sends files to the Recycle Bin with undo enabled.
type recycleBin struct{}

// System returns the Recycle Bin.
func System() (Remover, error) {
	if err := procSHFileOperationW.Find(); err != nil {
		return nil, fmt.Errorf("locating SHFileOperationW: %w", err)
	}
	return recycleBin{}, nil
}

func (recycleBin) Remove(ctx context.Context, paths []string) []Outcome {
	return removeEach(ctx, paths, func(path string) error {
		abs, _, err := resolve(path)
		if err != nil {
			return fmt.Errorf("trashing `%s`: %w", path, err)
		}
		if err := recycle(abs); err != nil {
			return fmt.Errorf("trashing `%s`: %w", path, err)
		}
		return nil
	})
}

func recycle(abs string) error {
	from, err := windows.UTF16FromString(abs)
	if err != nil {
		return err
	}
	// pFrom is a list terminated by an extra NUL.
	from = append(from, 0)

	op := shFileOpStruct{
		wFunc:  foDelete,
		pFrom:  &from[0],
		fFlags: fofAllowUndo | fofNoConfirmation | fofNoErrorUI | fofSilent,
	}
	ret, _, _ := procSHFileOperationW.Call(uintptr(unsafe.Pointer(&op)))
	if ret != 0 {
		return fmt.Errorf("SHFileOperationW failed with code %#x", ret)
	}
	if op.fAnyOperationsAborted != 0 {
		return errors.New("recycle aborted")
	}
	return nil
}
