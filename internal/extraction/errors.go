package extraction

import "errors"

// ErrInsufficientContent indicates the document yielded too little text to
// review, either because it is empty or is a scanned image without a text
// layer.
var ErrInsufficientContent = errors.New("insufficient text content for review")
