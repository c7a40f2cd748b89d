package transfer

import "runtime"

// supportsPosixPermissions reports whether chmod carries POSIX mode
// semantics on this platform. Windows only honors the writable bit.
func supportsPosixPermissions() bool {
	return runtime.GOOS != "windows"
}
