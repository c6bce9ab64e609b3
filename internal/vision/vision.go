package vision

import "context"

// Assessor produces a free-text risk assessment for an inline-encoded image.
type Assessor interface {
	Assess(ctx context.Context, imageDataURI string) (string, error)
}
