package sqlite3

import (
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
)

// Helpers for crossing the Go/C boundary. Every string or blob handed to
// the engine is first copied into C heap memory owned by either the
// binding (freed on Finish) or the engine (freed through a destructor).

const ptrSize = types.Size_t(unsafe.Sizeof(uintptr(0)))

// freeFuncPtr is libc's free as a C function pointer, usable as a bind
// destructor so the engine releases the buffer when it is done with it.
var freeFuncPtr = cFuncPointer(libc.Xfree)

// sqliteStatic is the SQLITE_STATIC destructor: the engine references the
// buffer without copying and never frees it.
const sqliteStatic uintptr = 0

var emptyCString = mustCString("")

func malloc(tls *libc.TLS, n types.Size_t) (uintptr, error) {
	p := libc.Xmalloc(tls, n)
	if p == 0 {
		return 0, &Error{Code: CodeNoMem, Message: "out of memory"}
	}
	return p, nil
}

// allocBytes copies b into a fresh C allocation. A zero-length b still
// allocates one byte so the result is a valid pointer.
func allocBytes(tls *libc.TLS, b []byte) (uintptr, error) {
	n := types.Size_t(len(b))
	if n == 0 {
		n = 1
	}
	p, err := malloc(tls, n)
	if err != nil {
		return 0, err
	}
	copy(libc.GoBytes(p, len(b)), b)
	return p, nil
}

// allocString copies s into a fresh C allocation without a trailing NUL;
// the engine receives the explicit byte length alongside.
func allocString(tls *libc.TLS, s string) (uintptr, error) {
	n := types.Size_t(len(s))
	if n == 0 {
		n = 1
	}
	p, err := malloc(tls, n)
	if err != nil {
		return 0, err
	}
	copy(libc.GoBytes(p, len(s)), s)
	return p, nil
}

func mustCString(s string) uintptr {
	p, err := libc.CString(s)
	if err != nil {
		panic(err)
	}
	return p
}

// goStringN copies n bytes at p into a Go string.
func goStringN(p uintptr, n int) string {
	if p == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

func derefPtr(p uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(p))
}

// cFuncPointer converts a function defined by a function declaration to a
// C function pointer, relying on the Go func value memory layout
// (https://golang.org/s/go11func). The result of using it on closures is
// undefined; only package-level functions are passed here.
func cFuncPointer[T any](f T) uintptr {
	return *(*uintptr)(unsafe.Pointer(&struct{ f T }{f}))
}
