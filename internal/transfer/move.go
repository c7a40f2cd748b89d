package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// moveFile relocates src to dst. A rename is used when both paths live on
// the same volume; otherwise the file is copied next to dst, verified,
// renamed into place and the source removed. The destination either appears
// complete or not at all.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}
	return copyAndRemove(src, dst)
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

// copyAndRemove copies src to a partial file beside dst, fsyncs it,
// verifies the byte count, renames it into place and deletes src. The
// partial file is removed on any failure.
func copyAndRemove(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	partial := dst + ".partial"
	out, err := os.OpenFile(partial, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(partial)
		}
	}()

	written, err := io.Copy(out, in)
	if err != nil {
		return err
	}
	if written != info.Size() {
		return fmt.Errorf("short copy: wrote %d of %d bytes", written, info.Size())
	}
	if err = out.Sync(); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	if err = os.Rename(partial, dst); err != nil {
		os.Remove(partial)
		return err
	}
	return os.Remove(src)
}
