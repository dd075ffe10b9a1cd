package media

import "errors"

// ErrOutputNotFound is returned when the engine reported success but the
// transcoded file is not on disk
var ErrOutputNotFound = errors.New("mp3 file not found after download")
