package jobs

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/RankOps/kwgroup/internal/loader"
	"github.com/RankOps/kwgroup/internal/serp"
)

// Failure kinds reported with a terminal FAILED status. Jobs are not
// retried; an interrupted fetch is picked up again through its snapshots.
const (
	FailureMissingField     = "MissingFieldError"
	FailureConnectivity     = "ConnectivityError"
	FailureInvalidAttribute = "InvalidAttributeError"
	FailureUnclassified     = "UnclassifiedError"
)

// Classify maps a stage error onto its failure kind.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, serp.ErrMissingField) {
		return FailureMissingField
	}
	if errors.Is(err, loader.ErrMissingColumn) {
		return FailureInvalidAttribute
	}

	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.As(err, &netErr),
		errors.As(err, &urlErr),
		errors.Is(err, context.DeadlineExceeded):
		return FailureConnectivity
	}
	return FailureUnclassified
}
