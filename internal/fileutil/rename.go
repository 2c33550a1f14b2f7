package fileutil

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrDestinationExists reports a move whose target already exists.
var ErrDestinationExists = errors.New("destination exists")

// renameFunc is swapped in tests to simulate EXDEV.
var renameFunc = os.Rename

// CrossDeviceError reports a rename that crossed filesystems.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device rename %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename wraps os.Rename and tags EXDEV failures as CrossDeviceError.
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// Exists reports whether path exists (without following a final symlink).
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// MoveNoReplace moves src to dst without ever overwriting dst. Cross-device
// moves fall back to a verified copy followed by removal of src.
func MoveNoReplace(src, dst string) error {
	if src == dst {
		return nil
	}
	err := renameNoReplace(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("move %q: %w", dst, ErrDestinationExists)
	}
	if !errors.Is(err, syscall.EXDEV) && !IsCrossDevice(err) {
		return err
	}
	if Exists(dst) {
		return fmt.Errorf("move %q: %w", dst, ErrDestinationExists)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("move %q: %w", dst, ErrDestinationExists)
		}
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// renameCheckThenMove is the portable no-replace rename: a check followed by
// a plain rename. It races with concurrent writers.
func renameCheckThenMove(src, dst string) error {
	if Exists(dst) {
		return os.ErrExist
	}
	return Rename(src, dst)
}
