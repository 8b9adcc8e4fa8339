package submission

import "errors"

var ErrSubmissionNotFound = errors.New("submission not found")
