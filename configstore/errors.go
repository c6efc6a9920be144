package configstore

import "errors"

// ErrStorageInit indicates that the backing file or table could not be created.
var ErrStorageInit = errors.New("configuration storage could not be initialized")

// ErrStorageIO indicates that a read or write against an initialized storage failed.
var ErrStorageIO = errors.New("configuration storage I/O failed")
