// Package mmap provides read-only memory-mapped file access.
//
// The local blob store maps feature database files instead of copying them
// into the heap before decoding:
//
//	m, err := mmap.Open("features.json")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes() // valid until Close
//
// Unix uses mmap(2) and madvise(2); Windows uses CreateFileMapping and
// MapViewOfFile with Advise as a no-op.
package mmap
